package supabase

import (
	"errors"
	"strings"

	"jobboard/internal/config"

	supa "github.com/nedpals/supabase-go"
)

var errMissingCredentials = errors.New("supabase url and key are required")

func NewClient(cfg config.SupabaseConfig) (*supa.Client, error) {
	url := strings.TrimSpace(cfg.URL)
	key := strings.TrimSpace(cfg.Key)
	if url == "" || key == "" {
		return nil, errMissingCredentials
	}
	return supa.CreateClient(url, key), nil
}
