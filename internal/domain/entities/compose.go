package entities

const promptSeparator = ", "

// ComposePositive appends a positive template after the caller's prompt.
func ComposePositive(template, prompt string) string {
	switch {
	case template == "":
		return prompt
	case prompt == "":
		return template
	default:
		return prompt + promptSeparator + template
	}
}

// ComposeNegative prepends a negative template before the caller's prompt.
func ComposeNegative(template, prompt string) string {
	switch {
	case template == "":
		return prompt
	case prompt == "":
		return template
	default:
		return template + promptSeparator + prompt
	}
}

// ComposePositive merges the style's positive template into prompt
func (s StyleRecord) ComposePositive(prompt string) string {
	return ComposePositive(s.Prompt, prompt)
}

// ComposeNegative merges the style's negative template into prompt
func (s StyleRecord) ComposeNegative(prompt string) string {
	return ComposeNegative(s.NegativePrompt, prompt)
}
