package curriculum

import (
	"testing"
)

func TestSeedIsValid(t *testing.T) {
	if err := validate(seed); err != nil {
		t.Fatalf("seed invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		data map[Level][]Subject
	}{
		{"missing level", map[Level][]Subject{Elementary: {{Name: "1학년", Topics: []string{"a"}}}}},
		{"duplicate subject", map[Level][]Subject{
			Elementary: {{Name: "a", Topics: []string{"x"}}, {Name: "a", Topics: []string{"y"}}},
			Middle:     {{Name: "b", Topics: []string{"x"}}},
			High:       {{Name: "c", Topics: []string{"x"}}},
		}},
		{"empty topics", map[Level][]Subject{
			Elementary: {{Name: "a"}},
			Middle:     {{Name: "b", Topics: []string{"x"}}},
			High:       {{Name: "c", Topics: []string{"x"}}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validate(tt.data); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLevelLabels(t *testing.T) {
	want := map[Level]string{Elementary: "초등학교", Middle: "중학교", High: "고등학교"}
	for l, label := range want {
		if got := l.Label(); got != label {
			t.Errorf("%s.Label() = %q, want %q", l, got, label)
		}
		parsed, err := ParseLevel(label)
		if err != nil || parsed != l {
			t.Errorf("ParseLevel(%q) = %q, %v", label, parsed, err)
		}
		parsed, err = ParseLevel(string(l))
		if err != nil || parsed != l {
			t.Errorf("ParseLevel(%q) = %q, %v", l, parsed, err)
		}
	}
	if _, err := ParseLevel("대학교"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestSubjectsAndTopics(t *testing.T) {
	subs := Subjects(High)
	if len(subs) == 0 || subs[0] != "공통수학1" {
		t.Fatalf("high subjects = %v", subs)
	}
	topics := Topics(Middle, "2학년")
	if len(topics) == 0 {
		t.Fatal("no topics for middle 2학년")
	}
	if !HasTopic(Middle, "2학년", "일차함수와 그래프") {
		t.Error("expected 일차함수와 그래프 in middle 2학년")
	}
	if HasTopic(Middle, "2학년", "미분계수와 도함수") {
		t.Error("unexpected high-school topic in middle 2학년")
	}
	if Topics(High, "없는 과목") != nil {
		t.Error("expected nil topics for unknown subject")
	}
	if !HasSubject(Elementary, "6학년") || HasSubject(Elementary, "기하") {
		t.Error("HasSubject mismatch")
	}

	// Topics returns a copy.
	topics[0] = "changed"
	if Topics(Middle, "2학년")[0] == "changed" {
		t.Error("Topics must not expose the catalogue")
	}
}
