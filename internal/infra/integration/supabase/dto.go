package supabase

// User é o principal resolvido pelo GoTrue. O serviço só precisa de
// id/email para log; não há escopo por usuário nos leads.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Aud   string `json:"aud"`
}
