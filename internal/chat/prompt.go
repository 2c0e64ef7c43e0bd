package chat

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	DefaultBasePrompt = "You are a helpful and friendly chatbot specializing in agricultural advice. " +
		"Your goal is to assist users with their questions and tasks related to farming in a clear and conversational manner. " +
		"Be concise with your answers."

	// The %s verbs are replaced with the user's location and language.
	DefaultLocationClause        = "The current location for all advice is %s. Incorporate this context where relevant to provide localized advice."
	DefaultMissingLocationClause = "The user has not specified a location yet. Ask them for their city or state in India to provide them with the most accurate advice."
	DefaultLanguageClause        = "All responses must be in %s. Do not use any other language."
)

// PromptTemplate holds the pieces the system instruction is assembled from.
type PromptTemplate struct {
	BasePrompt            string `yaml:"base_prompt"`
	LocationClause        string `yaml:"location_clause"`
	MissingLocationClause string `yaml:"missing_location_clause"`
	LanguageClause        string `yaml:"language_clause"`
}

func DefaultPromptTemplate() PromptTemplate {
	return PromptTemplate{
		BasePrompt:            DefaultBasePrompt,
		LocationClause:        DefaultLocationClause,
		MissingLocationClause: DefaultMissingLocationClause,
		LanguageClause:        DefaultLanguageClause,
	}
}

// LoadPromptTemplate reads a YAML prompt file. Fields missing from the file
// keep their default values.
func LoadPromptTemplate(path string) (PromptTemplate, error) {
	tmpl := DefaultPromptTemplate()

	data, err := os.ReadFile(path)
	if err != nil {
		return tmpl, fmt.Errorf("error reading prompt file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return tmpl, fmt.Errorf("error parsing prompt file %s: %w", path, err)
	}

	if err := tmpl.validate(); err != nil {
		return tmpl, fmt.Errorf("invalid prompt file %s: %w", path, err)
	}

	return tmpl, nil
}

func (t PromptTemplate) validate() error {
	if strings.TrimSpace(t.BasePrompt) == "" {
		return fmt.Errorf("base_prompt must not be empty")
	}
	if err := checkClauseVerbs("location_clause", t.LocationClause); err != nil {
		return err
	}
	if err := checkClauseVerbs("language_clause", t.LanguageClause); err != nil {
		return err
	}
	return nil
}

// checkClauseVerbs requires exactly one %s in a clause. The only other
// allowed use of % is the %% escape.
func checkClauseVerbs(name, clause string) error {
	verbs := 0
	for i := 0; i < len(clause); i++ {
		if clause[i] != '%' {
			continue
		}
		if i+1 >= len(clause) {
			return fmt.Errorf("%s ends with a dangling %%", name)
		}
		switch clause[i+1] {
		case '%':
		case 's':
			verbs++
		default:
			return fmt.Errorf("%s contains unsupported verb %%%c, only %%s and %%%% are allowed", name, clause[i+1])
		}
		i++
	}

	if verbs != 1 {
		return fmt.Errorf("%s must contain exactly one %%s, found %d", name, verbs)
	}
	return nil
}

// SystemInstruction builds the instruction sent with every provider call.
// Empty location or language are treated as not given.
func (t PromptTemplate) SystemInstruction(location, language string) string {
	location = strings.TrimSpace(location)
	language = strings.TrimSpace(language)

	parts := []string{t.BasePrompt}

	if location != "" {
		parts = append(parts, fmt.Sprintf(t.LocationClause, location))
	} else if t.MissingLocationClause != "" {
		parts = append(parts, t.MissingLocationClause)
	}

	if language != "" {
		parts = append(parts, fmt.Sprintf(t.LanguageClause, language))
	}

	return strings.Join(parts, " ")
}
