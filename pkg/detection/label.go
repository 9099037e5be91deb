package detection

import "strings"

// ReadableLabel renders a raw model class name for display: underscores
// become spaces and each word is title-cased ("Tomato_Early_blight" ->
// "Tomato Early Blight").
func ReadableLabel(label string) string {
	words := strings.Split(strings.ReplaceAll(label, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
