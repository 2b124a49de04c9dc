package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed questionnaire.yaml
var defaultQuestionnaire []byte

// ErrAnswerCount and ErrAnswerValue are returned by CheckAnswers.
var (
	ErrAnswerCount = errors.New("answer count does not match questionnaire")
	ErrAnswerValue = errors.New("answer is not one of the page options")
)

// Questionnaire is the paged stress check. The first page holds the group A
// items; every following page belongs to group B.
type Questionnaire struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Pages []Page `yaml:"pages" json:"pages"`
}

// Page is a group of questions sharing one option set.
type Page struct {
	Title     string   `yaml:"title" json:"title"`
	Questions []string `yaml:"questions" json:"questions"`
	Options   []Option `yaml:"options" json:"options"`
}

type Option struct {
	Label string `yaml:"label" json:"label"`
	Value int    `yaml:"value" json:"value"`
}

// LoadQuestionnaire reads the questionnaire from path, or the embedded default
// when path is empty.
func LoadQuestionnaire(path string) (*Questionnaire, error) {
	data := defaultQuestionnaire
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.LoadQuestionnaire: %w", err)
		}
	}
	return ParseQuestionnaire(data)
}

func ParseQuestionnaire(data []byte) (*Questionnaire, error) {
	var q Questionnaire
	if err := yaml.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("config.ParseQuestionnaire: %w", err)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}

func (q *Questionnaire) Validate() error {
	if len(q.Pages) == 0 {
		return fmt.Errorf("questionnaire %q: no pages", q.ID)
	}
	for i, p := range q.Pages {
		if len(p.Questions) == 0 {
			return fmt.Errorf("questionnaire %q: page %d has no questions", q.ID, i+1)
		}
		if len(p.Options) == 0 {
			return fmt.Errorf("questionnaire %q: page %d has no options", q.ID, i+1)
		}
		seen := make(map[int]bool, len(p.Options))
		for _, o := range p.Options {
			if seen[o.Value] {
				return fmt.Errorf("questionnaire %q: page %d repeats option value %d", q.ID, i+1, o.Value)
			}
			seen[o.Value] = true
		}
	}
	return nil
}

// SplitIndex is the number of group A questions.
func (q *Questionnaire) SplitIndex() int {
	if len(q.Pages) == 0 {
		return 0
	}
	return len(q.Pages[0].Questions)
}

func (q *Questionnaire) TotalQuestions() int {
	n := 0
	for _, p := range q.Pages {
		n += len(p.Questions)
	}
	return n
}

// PageFor returns the page that owns the flat answer index.
func (q *Questionnaire) PageFor(index int) (Page, bool) {
	if index < 0 {
		return Page{}, false
	}
	for _, p := range q.Pages {
		if index < len(p.Questions) {
			return p, true
		}
		index -= len(p.Questions)
	}
	return Page{}, false
}

// CheckAnswers validates a submitted answer set. Unanswered items are nil and
// always accepted.
func (q *Questionnaire) CheckAnswers(answers []*int) error {
	if len(answers) != q.TotalQuestions() {
		return fmt.Errorf("%w: got %d, want %d", ErrAnswerCount, len(answers), q.TotalQuestions())
	}
	for i, a := range answers {
		if a == nil {
			continue
		}
		page, _ := q.PageFor(i)
		if !page.hasValue(*a) {
			return fmt.Errorf("%w: question %d has %d", ErrAnswerValue, i+1, *a)
		}
	}
	return nil
}

func (p Page) hasValue(v int) bool {
	for _, o := range p.Options {
		if o.Value == v {
			return true
		}
	}
	return false
}
