package mail

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
}

type ImportSummaryData struct {
	FileName   string
	Inserted   int
	ImportedAt string
}
