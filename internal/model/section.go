package model

import "strings"

// Section is one labeled span of source text extracted from a page range
type Section struct {
	Label     string `json:"label"`      // Section name from the job config (unique, order-significant)
	Text      string `json:"text"`       // Extracted text
	WordCount int    `json:"word_count"` // Derived from Text
}

// SectionStore holds extracted sections in their configured order.
// It is built once by the extractor and read-only afterwards.
type SectionStore struct {
	labels   []string
	sections map[string]Section
}

// NewSectionStore creates an empty section store
func NewSectionStore() *SectionStore {
	return &SectionStore{
		sections: make(map[string]Section),
	}
}

// Add appends a section. A duplicate label overwrites the text but keeps
// the original position.
func (s *SectionStore) Add(label, text string) {
	if _, exists := s.sections[label]; !exists {
		s.labels = append(s.labels, label)
	}
	s.sections[label] = Section{
		Label:     label,
		Text:      text,
		WordCount: CountWords(text),
	}
}

// Get returns the section for a label
func (s *SectionStore) Get(label string) (Section, bool) {
	sec, ok := s.sections[label]
	return sec, ok
}

// Labels returns section labels in insertion order
func (s *SectionStore) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Sections returns all sections in insertion order
func (s *SectionStore) Sections() []Section {
	out := make([]Section, 0, len(s.labels))
	for _, label := range s.labels {
		out = append(out, s.sections[label])
	}
	return out
}

// Len returns the number of sections
func (s *SectionStore) Len() int {
	return len(s.labels)
}

// TotalWords returns the word count across all sections
func (s *SectionStore) TotalWords() int {
	total := 0
	for _, label := range s.labels {
		total += s.sections[label].WordCount
	}
	return total
}

// CountWords counts whitespace-separated words
func CountWords(text string) int {
	return len(strings.Fields(text))
}
