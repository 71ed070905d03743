package index

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/hlvm-dev/hqlc/logger"
)

// ignoreRule is one compiled ignore pattern. Rules apply in file order and
// the last matching rule wins.
type ignoreRule struct {
	pattern string
	negate  bool
	dirOnly bool
	// exact matches the path itself; descend matches anything under it.
	exact   *regexp.Regexp
	descend *regexp.Regexp
}

// IgnoreRules is an ordered set of compiled ignore patterns.
type IgnoreRules struct {
	rules []ignoreRule
}

// LoadIgnoreFile reads an ignore file. A missing file yields empty rules;
// malformed pattern lines are skipped, not fatal.
func LoadIgnoreFile(path string) *IgnoreRules {
	f, err := os.Open(path)
	if err != nil {
		return &IgnoreRules{}
	}
	defer f.Close()

	ir := &IgnoreRules{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rule, ok := compilePattern(line); ok {
			ir.rules = append(ir.rules, rule)
		} else {
			logger.Debugw("skipping malformed ignore pattern", "pattern", line, "file", path)
		}
	}
	return ir
}

// ParseIgnorePatterns compiles patterns supplied directly (tests, config).
func ParseIgnorePatterns(lines []string) *IgnoreRules {
	ir := &IgnoreRules{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rule, ok := compilePattern(line); ok {
			ir.rules = append(ir.rules, rule)
		}
	}
	return ir
}

// compilePattern translates one gitignore-style pattern:
// `*` a run of non-separator chars, `**` any run, `?` one non-separator
// char, trailing `/` restricts to directories, leading `/` anchors to the
// root, leading `!` negates.
func compilePattern(pattern string) (ignoreRule, bool) {
	rule := ignoreRule{pattern: pattern}

	p := pattern
	if strings.HasPrefix(p, "!") {
		rule.negate = true
		p = p[1:]
	}
	if strings.HasSuffix(p, "/") {
		rule.dirOnly = true
		p = strings.TrimSuffix(p, "/")
	}
	anchored := strings.HasPrefix(p, "/")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return ignoreRule{}, false
	}

	var b strings.Builder
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '*':
			if i+1 < len(p) && p[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(p[i])))
		}
	}

	prefix := "^"
	if !anchored {
		// Unanchored patterns match at any component boundary.
		prefix = "(?:^|.*/)"
	}

	exact, err := regexp.Compile(prefix + b.String() + "$")
	if err != nil {
		return ignoreRule{}, false
	}
	descend, err := regexp.Compile(prefix + b.String() + "/.*$")
	if err != nil {
		return ignoreRule{}, false
	}

	rule.exact = exact
	rule.descend = descend
	return rule, true
}

// matches reports whether the rule applies to the slash-separated relative
// path.
func (r ignoreRule) matches(relPath string, isDir bool) bool {
	if r.descend.MatchString(relPath) {
		return true
	}
	if r.exact.MatchString(relPath) {
		if r.dirOnly {
			return isDir
		}
		return true
	}
	return false
}

// Ignored applies the rules in order; the last matching rule wins.
func (ir *IgnoreRules) Ignored(relPath string, isDir bool) bool {
	ignored := false
	for _, rule := range ir.rules {
		if rule.matches(relPath, isDir) {
			ignored = !rule.negate
		}
	}
	return ignored
}

// Empty reports whether no rules are loaded.
func (ir *IgnoreRules) Empty() bool {
	return len(ir.rules) == 0
}
