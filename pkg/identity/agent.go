package identity

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nathfavour/agentpesa/pkg/catalog"
)

// Agent is one hosted agent identity.
type Agent struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	Template    string `json:"template"`
	// WalletAddress is empty until the wallet service registers one.
	WalletAddress string    `json:"wallet_address,omitempty"`
	WalletIndex   *uint32   `json:"wallet_index,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Registry persists agents as a JSON file keyed by handle.
type Registry struct {
	Agents map[string]*Agent `json:"agents"`
	path   string
	mu     sync.RWMutex
}

func NewRegistry(path string) (*Registry, error) {
	r := &Registry{
		Agents: make(map[string]*Agent),
		path:   path,
	}
	if err := r.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return r, nil
}

func (r *Registry) Create(handle, displayName, template string) (*Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.Agents[handle]; exists {
		return nil, fmt.Errorf("agent with handle '%s' already exists", handle)
	}
	if template == "" {
		template = catalog.DefaultTemplate
	}

	agent := &Agent{
		ID:          uuid.New().String(),
		Handle:      handle,
		DisplayName: displayName,
		Template:    template,
		CreatedAt:   time.Now(),
	}
	r.Agents[handle] = agent
	if err := r.save(); err != nil {
		return nil, err
	}
	return snapshot(agent), nil
}

// snapshot copies an agent so callers never share the canonical struct.
// SetWallet mutates the stored agent under the lock; message units hold
// their copy for the duration of one unit of work.
func snapshot(a *Agent) *Agent {
	cp := *a
	return &cp
}

// Get looks up an agent by handle. The returned agent is a copy taken
// under the lock.
func (r *Registry) Get(handle string) (*Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.Agents[handle]
	if !ok {
		return nil, false
	}
	return snapshot(a), true
}

func (r *Registry) GetByID(id string) (*Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.Agents {
		if a.ID == id {
			return snapshot(a), true
		}
	}
	return nil, false
}

func (r *Registry) List() []*Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*Agent
	for _, a := range r.Agents {
		list = append(list, snapshot(a))
	}
	return list
}

// SetWallet records a freshly registered wallet on the agent.
func (r *Registry) SetWallet(agentID, address string, index uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.Agents {
		if a.ID == agentID {
			a.WalletAddress = address
			idx := index
			a.WalletIndex = &idx
			return r.save()
		}
	}
	return fmt.Errorf("agent %s not found", agentID)
}

func (r *Registry) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, r)
}

func (r *Registry) save() error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}
