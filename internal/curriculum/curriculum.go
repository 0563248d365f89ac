// Package curriculum is the catalogue of education levels, subjects and
// topics offered by the problem generator and level-test forms.
package curriculum

import (
	"fmt"
	"slices"
)

// Level is a school level.
type Level string

const (
	Elementary Level = "elementary"
	Middle     Level = "middle"
	High       Level = "high"
)

// Levels lists the levels in display order.
var Levels = []Level{Elementary, Middle, High}

// DefaultLevel is preselected by the forms.
const DefaultLevel = High

// Label returns the Korean name sent to the generation service.
func (l Level) Label() string {
	switch l {
	case Elementary:
		return "초등학교"
	case Middle:
		return "중학교"
	case High:
		return "고등학교"
	}
	return string(l)
}

// ParseLevel accepts either the identifier or the Korean label.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if s == string(l) || s == l.Label() {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown education level %q", s)
}

// Subject is a course (or grade, for the lower levels) with its topics.
type Subject struct {
	Name   string
	Topics []string
}

// catalogue holds the subjects of each level in display order.
type catalogue struct {
	subjects map[Level][]Subject
	byName   map[Level]map[string]*Subject
}

var cat *catalogue

func init() {
	if err := validate(seed); err != nil {
		panic("curriculum: " + err.Error())
	}
	cat = build(seed)
}

func build(data map[Level][]Subject) *catalogue {
	c := &catalogue{
		subjects: data,
		byName:   make(map[Level]map[string]*Subject, len(data)),
	}
	for lvl, subs := range data {
		idx := make(map[string]*Subject, len(subs))
		for i := range subs {
			idx[subs[i].Name] = &subs[i]
		}
		c.byName[lvl] = idx
	}
	return c
}

// Subjects returns the subject names of a level in display order.
func Subjects(l Level) []string {
	subs := cat.subjects[l]
	names := make([]string, len(subs))
	for i, s := range subs {
		names[i] = s.Name
	}
	return names
}

// Topics returns the topics of a subject, or nil when the subject is not
// part of the level.
func Topics(l Level, subject string) []string {
	s, ok := cat.byName[l][subject]
	if !ok {
		return nil
	}
	return slices.Clone(s.Topics)
}

// HasSubject reports whether subject belongs to level l.
func HasSubject(l Level, subject string) bool {
	_, ok := cat.byName[l][subject]
	return ok
}

// HasTopic reports whether topic belongs to the subject.
func HasTopic(l Level, subject, topic string) bool {
	s, ok := cat.byName[l][subject]
	return ok && slices.Contains(s.Topics, topic)
}
