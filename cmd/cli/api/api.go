package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/maxirosso/tpo-sipii-back/cmd/cli/config"
)

// Post sends a JSON POST to the API. When authed is true the stored token is
// attached as a bearer credential. out may be nil when the response body is
// not needed.
func Post(path string, payload interface{}, authed bool, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, config.APIURL()+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return do(req, authed, out)
}

// Get sends a GET to the API, optionally with the stored bearer token.
func Get(path string, authed bool, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, config.APIURL()+path, nil)
	if err != nil {
		return err
	}
	return do(req, authed, out)
}

func do(req *http.Request, authed bool, out interface{}) error {
	if authed {
		token, err := config.LoadToken()
		if err != nil {
			return err
		}
		if token == "" {
			return fmt.Errorf("not logged in: run `cards users login` first")
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return err
		}
	}
	return nil
}
