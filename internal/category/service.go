package category

import (
	"log/slog"
	"strings"
)

// Service serves the configured category vocabulary. Names are trimmed, blanks
// dropped and duplicates removed; the configured order is kept.
type Service struct {
	names  []string
	index  map[string]struct{}
	logger *slog.Logger
}

func NewService(names []string, logger *slog.Logger) *Service {
	s := &Service{index: make(map[string]struct{}, len(names)), logger: logger}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := s.index[n]; dup {
			logger.Warn("duplicate category ignored", "category", n)
			continue
		}
		s.index[n] = struct{}{}
		s.names = append(s.names, n)
	}
	return s
}

// Names returns a copy of the vocabulary.
func (s *Service) Names() []string {
	return append([]string{}, s.names...)
}

func (s *Service) All() CategoriesResponse {
	return CategoriesResponse{Categories: s.Names()}
}

func (s *Service) IsValidCategory(name string) bool {
	_, ok := s.index[name]
	return ok
}
