package mux

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"pokerroom-server/internal/config"
	"pokerroom-server/internal/jwt"
)

var userCounter int

// user returns a fresh user ID and a signed JWT for it
func user() (string, string) {
	userCounter++
	userID := fmt.Sprintf("user-%d", userCounter)
	j, _ := jwt.Sign(userID)
	return userID, j
}

func setupJWT() {
	os.Setenv("PRS_CONFIG_FILE", "testdata/config.yaml")
	if err := config.Load(); err != nil {
		panic(err)
	}

	jwt.LoadKeys()
}

func assertDo(t *testing.T, req *http.Request, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	if len(signedJWT) > 0 {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", signedJWT[0]))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Error(err)
		return nil
	}
	defer resp.Body.Close()

	if statusCode != resp.StatusCode {
		b, _ := ioutil.ReadAll(resp.Body)
		t.Log(string(b))
		assert.Equal(t, statusCode, resp.StatusCode)
		return nil
	}

	if respObj != nil {
		if err := json.NewDecoder(resp.Body).Decode(respObj); err != nil {
			t.Error(err)
			return nil
		}
	}

	return resp
}

func assertGetWithResp(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Error(err)
		return nil
	}

	return assertDo(t, req, respObj, statusCode, signedJWT...)
}

func assertGet(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) {
	t.Helper()
	resp := assertGetWithResp(t, ts, path, respObj, statusCode, signedJWT...)
	if resp != nil {
		_ = resp.Body.Close()
	}
}

func assertPostWithResp(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	var body io.Reader
	switch val := payload.(type) {
	case string:
		body = strings.NewReader(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			t.Error(err)
			return nil
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, body)
	if err != nil {
		t.Error(err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	return assertDo(t, req, respObj, statusCode, signedJWT...)
}

func assertPost(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int, signedJWT ...string) {
	t.Helper()
	resp := assertPostWithResp(t, ts, path, payload, respObj, statusCode, signedJWT...)
	if resp != nil {
		_ = resp.Body.Close()
	}
}

func assertDelete(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodDelete, ts.URL+path, nil)
	if err != nil {
		t.Error(err)
		return
	}

	resp := assertDo(t, req, respObj, statusCode, signedJWT...)
	if resp != nil {
		_ = resp.Body.Close()
	}
}

func TestParsePaginationOptions(t *testing.T) {
	a := assert.New(t)

	req := httptest.NewRequest(http.MethodGet, "/rooms?start=5&rows=10", nil)
	start, rows, err := parsePaginationOptions(req)
	a.NoError(err)
	a.Equal(5, start)
	a.Equal(10, rows)

	req = httptest.NewRequest(http.MethodGet, "/rooms", nil)
	start, rows, err = parsePaginationOptions(req)
	a.NoError(err)
	a.Equal(0, start)
	a.Equal(defaultRows, rows)

	req = httptest.NewRequest(http.MethodGet, "/rooms?start=-1", nil)
	_, _, err = parsePaginationOptions(req)
	a.EqualError(err, "start cannot be less than zero")

	req = httptest.NewRequest(http.MethodGet, "/rooms?rows=101", nil)
	_, _, err = parsePaginationOptions(req)
	a.EqualError(err, "rows cannot be greater than 100")
}
