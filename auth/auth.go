package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TestUserNoLLM is the user name that gets canned responses instead of
// calls to the model.
const TestUserNoLLM = "test-user-no-llm"

func New(apiKeyToUserName map[string]string, next http.Handler) *Auth {
	return &Auth{
		Next:             next,
		APIKeyToUserName: apiKeyToUserName,
	}
}

type Auth struct {
	Next             http.Handler
	APIKeyToUserName map[string]string
}

// LoadFromFile reads a map of API keys to user names. Files ending in .yaml
// or .yml are read as YAML, everything else as JSON.
func LoadFromFile(name string) (apiKeyToUserName map[string]string, err error) {
	f, err := os.OpenFile(name, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m := make(map[string]string)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(&m)
	default:
		err = json.NewDecoder(f).Decode(&m)
	}
	if err != nil {
		return nil, fmt.Errorf("auth: failed to decode %s: %w", name, err)
	}
	for k := range m {
		if strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("auth: %s contains an empty API key", name)
		}
	}
	return m, nil
}

type userContextKey int

const userKey userContextKey = 0

func GetUser(r *http.Request) (user string, ok bool) {
	user, ok = r.Context().Value(userKey).(string)
	return
}

func (a *Auth) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := a.APIKeyToUserName[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	r = r.WithContext(context.WithValue(r.Context(), userKey, user))
	a.Next.ServeHTTP(w, r)
}
