package curriculum

import "fmt"

// validate checks that every level has subjects, names are unique within a
// level and no subject is empty.
func validate(data map[Level][]Subject) error {
	for _, lvl := range Levels {
		subs := data[lvl]
		if len(subs) == 0 {
			return fmt.Errorf("level %s has no subjects", lvl)
		}
		seen := make(map[string]bool, len(subs))
		for _, s := range subs {
			if s.Name == "" {
				return fmt.Errorf("level %s: subject with empty name", lvl)
			}
			if seen[s.Name] {
				return fmt.Errorf("level %s: duplicate subject %q", lvl, s.Name)
			}
			seen[s.Name] = true
			if len(s.Topics) == 0 {
				return fmt.Errorf("level %s: subject %q has no topics", lvl, s.Name)
			}
			topics := make(map[string]bool, len(s.Topics))
			for _, t := range s.Topics {
				if topics[t] {
					return fmt.Errorf("level %s: subject %q: duplicate topic %q", lvl, s.Name, t)
				}
				topics[t] = true
			}
		}
	}
	return nil
}
