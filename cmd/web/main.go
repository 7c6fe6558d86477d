package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates
var templatesFS embed.FS

const (
	cookieName = "cards_token"
	defaultPort = "3000"
	defaultAPI  = "http://localhost:8080"
	envWebPort  = "CARDS_WEB_PORT"
	envAPIURL   = "CARDS_API_URL"
)

type card struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	ImageURL  *string `json:"image_url,omitempty"`
	OwnerID   *int    `json:"owner_id,omitempty"`
	OwnerName string  `json:"owner_name,omitempty"`
}

func main() {
	port := getEnv(envWebPort, defaultPort)
	apiBase := getEnv(envAPIURL, defaultAPI)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Public
	r.Get("/login", loginForm)
	r.Post("/login", loginSubmit(apiBase))
	r.Get("/register", registerForm)
	r.Post("/register", registerSubmit(apiBase))
	r.Get("/logout", logout)
	r.Get("/catalog", catalogPage(apiBase))

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(requireAuth(apiBase))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/collection", http.StatusFound)
		})
		r.Get("/collection", collectionPage(apiBase))
		r.Post("/trade", tradeSubmit(apiBase))
		r.Post("/add-random", addRandomSubmit(apiBase))
	})

	log.Println("web dashboard listening on :" + port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// requireAuth redirects to /login when the cookie is missing or the API
// rejects the token.
func requireAuth(apiBase string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := r.Cookie(cookieName)
			if err != nil || token.Value == "" {
				http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
				return
			}
			_, status, _ := apiGet(apiBase, "/cards", token.Value)
			if status == http.StatusForbidden {
				http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1})
				http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func loginForm(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		http.Redirect(w, r, "/collection", http.StatusFound)
		return
	}
	renderTemplate(w, "login.html", nil)
}

func loginSubmit(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")
		if username == "" || password == "" {
			renderTemplate(w, "login.html", map[string]string{"Error": "Username and password are required"})
			return
		}

		body, _ := json.Marshal(map[string]string{"username": username, "password": password})
		data, status, err := apiPost(apiBase, "/login", "", body)
		if err != nil {
			renderTemplate(w, "login.html", map[string]string{"Error": "Cannot reach API: " + err.Error()})
			return
		}
		if status != http.StatusOK {
			renderTemplate(w, "login.html", map[string]string{"Error": apiErrorMessage(data)})
			return
		}

		var out struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(data, &out); err != nil || out.Token == "" {
			renderTemplate(w, "login.html", map[string]string{"Error": "Invalid login response"})
			return
		}

		next := r.URL.Query().Get("next")
		if next == "" {
			next = "/collection"
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    out.Token,
			Path:     "/",
			MaxAge:   3600,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, next, http.StatusFound)
	}
}

func registerForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, "register.html", nil)
}

func registerSubmit(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")

		body, _ := json.Marshal(map[string]string{"username": username, "password": password})
		data, status, err := apiPost(apiBase, "/register", "", body)
		if err != nil {
			renderTemplate(w, "register.html", map[string]string{"Error": "Cannot reach API: " + err.Error()})
			return
		}
		if status != http.StatusCreated {
			renderTemplate(w, "register.html", map[string]string{"Error": apiErrorMessage(data)})
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

func logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/login", http.StatusFound)
}

func catalogPage(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, status, err := apiGet(apiBase, "/all-cards", "")
		if err != nil {
			renderTemplate(w, "catalog.html", map[string]interface{}{"Error": err.Error()})
			return
		}
		if status != http.StatusOK {
			renderTemplate(w, "catalog.html", map[string]interface{}{"Error": apiErrorMessage(data)})
			return
		}
		var cards []card
		if err := json.Unmarshal(data, &cards); err != nil {
			renderTemplate(w, "catalog.html", map[string]interface{}{"Error": "Invalid catalog response"})
			return
		}
		renderTemplate(w, "catalog.html", map[string]interface{}{"Cards": cards})
	}
}

func collectionPage(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := cookieToken(r)
		data, status, err := apiGet(apiBase, "/cards", token)
		if err != nil {
			renderTemplate(w, "collection.html", map[string]interface{}{"Error": err.Error()})
			return
		}
		if status != http.StatusOK {
			renderTemplate(w, "collection.html", map[string]interface{}{"Error": apiErrorMessage(data)})
			return
		}
		var cards []card
		if err := json.Unmarshal(data, &cards); err != nil {
			renderTemplate(w, "collection.html", map[string]interface{}{"Error": "Invalid collection response"})
			return
		}
		msg := r.URL.Query().Get("msg")
		renderTemplate(w, "collection.html", map[string]interface{}{"Cards": cards, "Message": msg})
	}
}

func tradeSubmit(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		cardID, err1 := strconv.Atoi(r.FormValue("card_id"))
		targetID, err2 := strconv.Atoi(r.FormValue("target_user_id"))
		if err1 != nil || err2 != nil {
			http.Redirect(w, r, "/collection?msg="+url.QueryEscape("Invalid trade input"), http.StatusFound)
			return
		}

		body, _ := json.Marshal(map[string]int{"cardId": cardID, "targetUserId": targetID})
		data, status, err := apiPost(apiBase, "/trade", cookieToken(r), body)
		msg := fmt.Sprintf("Card %d transferred to user %d", cardID, targetID)
		if err != nil {
			msg = "Cannot reach API: " + err.Error()
		} else if status != http.StatusOK {
			msg = apiErrorMessage(data)
		}
		http.Redirect(w, r, "/collection?msg="+url.QueryEscape(msg), http.StatusFound)
	}
}

func addRandomSubmit(apiBase string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, status, err := apiPost(apiBase, "/add-random-cards", cookieToken(r), []byte("{}"))
		msg := "Random cards claimed"
		if err != nil {
			msg = "Cannot reach API: " + err.Error()
		} else if status != http.StatusCreated {
			msg = apiErrorMessage(data)
		}
		http.Redirect(w, r, "/collection?msg="+url.QueryEscape(msg), http.StatusFound)
	}
}

func cookieToken(r *http.Request) string {
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

func apiErrorMessage(data []byte) string {
	var errResp struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(data, &errResp)
	if errResp.Error != "" {
		return errResp.Error
	}
	return string(data)
}

// apiGet performs GET to the API with an optional bearer token.
func apiGet(apiBase, path, token string) ([]byte, int, error) {
	req, _ := http.NewRequest("GET", apiBase+path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return data, resp.StatusCode, nil
}

// apiPost performs POST to the API with an optional bearer token and JSON body.
func apiPost(apiBase, path, token string, body []byte) ([]byte, int, error) {
	req, _ := http.NewRequest("POST", apiBase+path, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return data, resp.StatusCode, nil
}

func renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	content, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	t := template.Must(template.New(name).Parse(string(content)))
	if err := t.Execute(w, data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}
