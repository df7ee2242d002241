package usecase

import "strings"

// Existem duas políticas de tag e elas NÃO são unificadas de propósito:
// o caminho em massa (API/CSV) preserva duplicatas, o caminho interativo
// (adicionar uma tag num lead existente) rejeita duplicata. Os dois
// comportamentos existem desde a primeira versão do produto e há quem
// dependa de cada um.

// NormalizeTags: caminho em massa. Stringifica o que não for string,
// faz trim, descarta vazios. Duplicatas ficam. nil se nada sobrar.
func NormalizeTags(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	var tags []string
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			s = stringify(item)
		}
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}

	if len(tags) == 0 {
		return nil
	}
	return tags
}

// AppendTag: caminho interativo. Trim, rejeita vazio e duplicata exata.
// Devolve a lista resultante e se houve inserção.
func AppendTag(tags []string, tag string) ([]string, bool) {
	next := strings.TrimSpace(tag)
	if next == "" {
		return tags, false
	}
	for _, existing := range tags {
		if existing == next {
			return tags, false
		}
	}
	return append(tags, next), true
}
