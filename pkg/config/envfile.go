package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LoadEnv parses a dotenv-style file into a key/value map. A missing file
// is a normal condition and yields an empty map.
func LoadEnv(path string) (map[string]string, error) {
	env := make(map[string]string)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return env, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		env[strings.TrimSpace(key)] = value
	}
	return env, nil
}

// RenderFrontendEnv produces the frontend .env contents for the given
// configuration. Keys the frontend framework exposes to the browser carry
// the NEXT_PUBLIC_ prefix.
func RenderFrontendEnv(cfg *Config) string {
	var b strings.Builder
	b.WriteString("# Managed by dh setup\n")
	writeEnvLine(&b, "NEXT_PUBLIC_SUPABASE_URL", cfg.DB.URL)
	writeEnvLine(&b, "NEXT_PUBLIC_SUPABASE_KEY", cfg.DB.PublicKey)
	writeEnvLine(&b, "NEXT_PUBLIC_API_URL", cfg.Deployment.APIURL)
	if cfg.Deployment.VercelURL != "" {
		writeEnvLine(&b, "NEXT_PUBLIC_VERCEL_URL", cfg.Deployment.VercelURL)
	}
	return b.String()
}

// RenderBackendEnv produces the backend .env contents, including the CLI
// side secrets that must never reach the frontend bundle.
func RenderBackendEnv(cfg *Config) string {
	var b strings.Builder
	b.WriteString("# Managed by dh setup\n")
	writeEnvLine(&b, "SUPABASE_URL", cfg.DB.URL)
	writeEnvLine(&b, "SUPABASE_SECRET_KEY", cfg.DB.SecretKey)
	writeEnvLine(&b, "SUPABASE_DB_PASSWORD", cfg.DB.Password)
	writeEnvLine(&b, "SUPABASE_ACCESS_TOKEN", cfg.DB.AccessToken)
	if cfg.DB.ProjectRef != "" {
		writeEnvLine(&b, "SUPABASE_PROJECT_REF", cfg.DB.ProjectRef)
	}
	return b.String()
}

func writeEnvLine(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "%s=%s\n", key, value)
}

// WriteEnv writes content to path, preserving any existing keys the
// rendered content does not manage so hand-added entries survive setup.
func WriteEnv(path, content string) error {
	existing, err := LoadEnv(path)
	if err != nil {
		return err
	}
	managed := envKeys(content)
	var extra []string
	for key, value := range existing {
		if _, ok := managed[key]; !ok {
			extra = append(extra, fmt.Sprintf("%s=%s", key, value))
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		content += "\n# Preserved entries\n" + strings.Join(extra, "\n") + "\n"
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

func envKeys(content string) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, line := range strings.Split(content, "\n") {
		if key, _, ok := strings.Cut(line, "="); ok && !strings.HasPrefix(line, "#") {
			keys[strings.TrimSpace(key)] = struct{}{}
		}
	}
	return keys
}

// EnvDiff renders a line-level diff between the current contents of path
// and the proposed content, for preview before overwriting. Returns "" when
// nothing would change or no file exists yet.
func EnvDiff(path, proposed string) string {
	current, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	if string(current) == proposed {
		return ""
	}
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToChars(string(current), proposed)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(src, dst, false), lines)

	var b strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			b.WriteString(prefix + redactSecret(line) + "\n")
		}
	}
	return b.String()
}

// redactSecret masks values of keys that look secret so diffs are safe to
// print to a terminal or scrollback.
func redactSecret(line string) string {
	key, value, ok := strings.Cut(line, "=")
	if !ok || value == "" {
		return line
	}
	upper := strings.ToUpper(key)
	if strings.Contains(upper, "SECRET") || strings.Contains(upper, "PASSWORD") || strings.Contains(upper, "TOKEN") {
		return key + "=********"
	}
	return line
}
