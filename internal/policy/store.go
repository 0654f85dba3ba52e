package policy

import (
	"encoding/json"
	"os"
	"sync"
)

// Store keeps one agent per bank and persists the learned tables to a JSON
// file, so policies survive restarts.
type Store struct {
	mu       sync.Mutex
	agents   map[string]*Agent
	filePath string
}

type storeFile struct {
	Agents map[string]*Agent `json:"agents"`
}

// NewStore loads agents from filePath, starting empty if the file does not
// exist yet. An empty path disables persistence.
func NewStore(filePath string) (*Store, error) {
	s := &Store{agents: make(map[string]*Agent), filePath: filePath}
	if filePath == "" {
		return s, nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Agents != nil {
		s.agents = f.Agents
	}
	return s, nil
}

// Agent returns the agent for a bank, creating a fresh one on first use.
func (s *Store) Agent(id string) *Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.agents[id]
	if !ok {
		a = NewAgent(id)
		s.agents[id] = a
	}
	return a
}

// Len returns the number of known agents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.agents)
}

// Save writes all agents to disk. A store without a file path saves
// nothing and reports success.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filePath == "" {
		return nil
	}
	data, err := json.MarshalIndent(storeFile{Agents: s.agents}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0644)
}
