package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands environment variables and a leading ~ in p.
// Windows also accepts ~\ and %VAR%.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = expandPercentVars(p)
	}

	rest, ok := trimHomePrefix(p)
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}

func trimHomePrefix(p string) (string, bool) {
	switch {
	case p == "~":
		return "", true
	case strings.HasPrefix(p, "~/"):
		return p[2:], true
	case runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`):
		return p[2:], true
	}
	return "", false
}

// expandPercentVars replaces %NAME% with the value of NAME.
// Unknown names are left untouched.
func expandPercentVars(p string) string {
	parts := strings.Split(p, "%")
	if len(parts) < 3 {
		return p
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for i := 1; i < len(parts); i++ {
		name := parts[i]
		if i == len(parts)-1 {
			b.WriteByte('%')
			b.WriteString(name)
			break
		}
		if val, ok := os.LookupEnv(name); ok && name != "" {
			b.WriteString(val)
			i++
			if i < len(parts) {
				b.WriteString(parts[i])
			}
			continue
		}
		b.WriteByte('%')
		b.WriteString(name)
	}
	return b.String()
}

// resolvePath expands p and makes it absolute relative to root.
func resolvePath(p, root string) string {
	p = expandPath(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
