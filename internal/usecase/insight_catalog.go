package usecase

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/eslsoft/speaktrack/internal/entity"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

type insightTemplate struct {
	Message    string `yaml:"message"`
	MessageOne string `yaml:"message_one"`
	Value      string `yaml:"value"`
}

// InsightCatalog holds the localised insight texts keyed by rule.
type InsightCatalog struct {
	lang      entity.Language
	templates map[entity.Language]map[string]insightTemplate
}

// LoadInsightCatalog reads the embedded locale files. Unknown languages fall back to English.
func LoadInsightCatalog(lang entity.Language) (*InsightCatalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	templates := make(map[entity.Language]map[string]insightTemplate, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		raw, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", entry.Name(), err)
		}
		var parsed map[string]insightTemplate
		if err := yaml.Unmarshal(raw, &parsed); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", entry.Name(), err)
		}
		code := entity.ParseLanguage(strings.TrimSuffix(entry.Name(), ".yaml"))
		if code == entity.LanguageUnspecified {
			continue
		}
		templates[code] = parsed
	}
	if _, ok := templates[entity.LanguageEnglish]; !ok {
		return nil, fmt.Errorf("english insight catalog missing")
	}

	return &InsightCatalog{lang: entity.NormalizeLanguage(lang), templates: templates}, nil
}

// Language reports the language the catalog renders in.
func (c *InsightCatalog) Language() entity.Language {
	return c.lang
}

func (c *InsightCatalog) lookup(rule string) insightTemplate {
	if tpl, ok := c.templates[c.lang][rule]; ok {
		return tpl
	}
	return c.templates[entity.LanguageEnglish][rule]
}

// render formats the message with messageArg and the value with valueArg.
func (c *InsightCatalog) render(rule string, messageArg, valueArg int) (string, string) {
	tpl := c.lookup(rule)
	message := tpl.Message
	if messageArg == 1 && tpl.MessageOne != "" {
		message = tpl.MessageOne
	}
	if message == "" {
		message = rule
	}
	return fmt.Sprintf(message, messageArg), fmt.Sprintf(tpl.Value, valueArg)
}
