package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// RelayCall is one request received by the Relay
type RelayCall struct {
	Provider string // callmebot or emailjs
	Target   string // phone or template id
	Body     map[string]any
}

// Relay stands in for CallMeBot, EmailJS and ViaCEP on one test server
type Relay struct {
	Server *httptest.Server

	mu        sync.Mutex
	calls     []RelayCall
	failing   map[string]bool
	addresses map[string]map[string]string
}

// NewRelay starts a Relay closed at test cleanup
func NewRelay(t *testing.T) *Relay {
	t.Helper()

	r := &Relay{
		failing:   map[string]bool{},
		addresses: map[string]map[string]string{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/whatsapp.php", r.whatsapp)
	mux.HandleFunc("/api/v1.0/email/send", r.email)
	mux.HandleFunc("/ws/", r.viaCEP)
	r.Server = httptest.NewServer(mux)
	t.Cleanup(r.Server.Close)
	return r
}

// URL is the base URL of every fake provider
func (r *Relay) URL() string {
	return r.Server.URL
}

// AddAddress registers the ViaCEP answer for an 8 digit cep
func (r *Relay) AddAddress(cep, street, district, city, uf string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addresses[cep] = map[string]string{
		"cep":        cep[:5] + "-" + cep[5:],
		"logradouro": street,
		"bairro":     district,
		"localidade": city,
		"uf":         uf,
	}
}

// Fail makes provider answer 500 from now on
func (r *Relay) Fail(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failing[provider] = true
}

// Calls returns the notification requests received so far
func (r *Relay) Calls(provider string) []RelayCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []RelayCall
	for _, c := range r.calls {
		if provider == "" || c.Provider == provider {
			out = append(out, c)
		}
	}
	return out
}

func (r *Relay) record(w http.ResponseWriter, call RelayCall) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	failing := r.failing[call.Provider]
	r.mu.Unlock()

	if failing {
		http.Error(w, "relay down", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte("OK"))
}

func (r *Relay) whatsapp(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	r.record(w, RelayCall{
		Provider: "callmebot",
		Target:   q.Get("phone"),
		Body:     map[string]any{"text": q.Get("text"), "apikey": q.Get("apikey")},
	})
}

func (r *Relay) email(w http.ResponseWriter, req *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	target, _ := body["template_id"].(string)
	r.record(w, RelayCall{Provider: "emailjs", Target: target, Body: body})
}

func (r *Relay) viaCEP(w http.ResponseWriter, req *http.Request) {
	cep := strings.TrimSuffix(strings.TrimPrefix(req.URL.Path, "/ws/"), "/json/")

	r.mu.Lock()
	addr, ok := r.addresses[cep]
	failing := r.failing["viacep"]
	r.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case failing:
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	case !ok:
		_, _ = w.Write([]byte(`{"erro": true}`))
	default:
		_ = json.NewEncoder(w).Encode(addr)
	}
}
