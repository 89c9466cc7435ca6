package policy

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/revscan/revscan/internal/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Store holds the loaded policy set. Defaults load at construction;
// LoadFile merges external files by policy id. After the last load the
// store is read-only and safe to share across concurrent scans.
type Store struct {
	policies map[string]*SecurityPolicy
	order    []string
	log      *zap.SugaredLogger
}

// NewStore builds a store seeded with the bundled default policies.
func NewStore(log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Store{policies: map[string]*SecurityPolicy{}, log: log}
	for _, p := range defaultPolicies() {
		p := p
		if err := p.validate(); err != nil {
			// Bundled policies are fixed at build time; a defect here is a
			// programming error, not a runtime condition.
			panic(fmt.Sprintf("default policy %s: %v", p.ID, err))
		}
		s.policies[p.ID] = &p
		s.order = append(s.order, p.ID)
	}
	return s
}

// policyFile is the on-disk shape of an external policy document.
type policyFile struct {
	Policies []SecurityPolicy `yaml:"policies" json:"policies"`
}

// LoadFile merges policies from a YAML or JSON document. The load is all or
// nothing: a parse failure or an invalid policy aborts it and the store is
// left exactly as it was. Same-id policies replace the loaded version and
// keep their position; new ids append.
func (s *Store) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read policy file: %w", err)
	}

	var doc policyFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &doc)
	default:
		err = json.Unmarshal(b, &doc)
	}
	if err != nil {
		return fmt.Errorf("parse policy file %s: %w", path, err)
	}

	// Validate everything before touching the store.
	loaded := make([]*SecurityPolicy, 0, len(doc.Policies))
	for i := range doc.Policies {
		p := doc.Policies[i]
		if err := p.validate(); err != nil {
			return fmt.Errorf("policy file %s: %w", path, err)
		}
		loaded = append(loaded, &p)
	}

	for _, p := range loaded {
		if _, exists := s.policies[p.ID]; !exists {
			s.order = append(s.order, p.ID)
		}
		s.policies[p.ID] = p
		for _, r := range p.Rules {
			if r.Type == RuleUnknown {
				s.log.Debugw("policy rule has unrecognized type; it will never match",
					"policy", p.ID, "type", r.rawType)
			}
			if r.invalid {
				s.log.Warnw("policy rule failed to compile; skipping it",
					"policy", p.ID, "type", r.Type)
			}
		}
	}
	s.log.Infow("loaded policies", "file", path, "count", len(loaded))
	return nil
}

// Evaluate runs every applicable policy against one file's content and
// returns the violations. A failing rule never aborts the file: invalid and
// unknown rules contribute nothing and the remaining rules still run.
func (s *Store) Evaluate(filePath string, content []byte) []types.Violation {
	lines := splitLines(content)
	var out []types.Violation
	for _, id := range s.order {
		p := s.policies[id]
		if !p.Applicable(filePath) {
			continue
		}
		for i := range p.Rules {
			r := &p.Rules[i]
			if r.Type == RuleUnknown {
				s.log.Debugw("skipping rule with unrecognized type",
					"policy", p.ID, "type", r.rawType, "file", filePath)
				continue
			}
			out = append(out, violationsFor(p, r, filePath, r.evaluate(lines))...)
		}
	}
	return out
}

// Get returns a policy by id.
func (s *Store) Get(id string) (*SecurityPolicy, bool) {
	p, ok := s.policies[id]
	return p, ok
}

// Policies lists the loaded policies in load order.
func (s *Store) Policies() []*SecurityPolicy {
	out := make([]*SecurityPolicy, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.policies[id])
	}
	return out
}

// Summary describes the loaded policy set.
type Summary struct {
	Total    int                    `json:"total_policies"`
	Enabled  int                    `json:"enabled_policies"`
	Disabled int                    `json:"disabled_policies"`
	Severity map[types.Severity]int `json:"severity_distribution"`
}

// Summarize tallies the loaded policies by enablement and severity.
func (s *Store) Summarize() Summary {
	sum := Summary{Total: len(s.policies), Severity: map[types.Severity]int{}}
	for _, p := range s.policies {
		if p.Enabled {
			sum.Enabled++
			sum.Severity[p.Severity]++
		}
	}
	sum.Disabled = sum.Total - sum.Enabled
	return sum
}

func splitLines(data []byte) []string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}
