package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_List_Pagination(t *testing.T) {
	pages := [][]byte{
		[]byte(`{"data":[{"id":"1"},{"id":"2"}],"pagination":{"next":"/next-page"}}`),
		[]byte(`{"data":[{"id":"3"}],"pagination":{"next":null}}`),
	}
	call := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pages[call])
		call++
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "secret", time.Second)
	records, err := c.List(context.Background(), "/api/v1beta0/user/1/farms/", nil)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 2, call)
}

func TestClient_List_SignsRequestHeaders(t *testing.T) {
	var gotSig, gotKeyID, gotDate string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Scalr-Signature")
		gotKeyID = r.Header.Get("X-Scalr-Key-Id")
		gotDate = r.Header.Get("X-Scalr-Date")
		w.Write([]byte(`{"data":[{"id":"1"}],"pagination":{"next":null}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "mykey", "mysecret", time.Second)
	_, err := c.List(context.Background(), "/api/v1beta0/user/1/farms/", url.Values{"name": {"prod"}})
	require.NoError(t, err)

	assert.Equal(t, "mykey", gotKeyID)
	assert.Contains(t, gotSig, "V1-HMAC-SHA256 ")
	assert.NotEmpty(t, gotDate)
}

func TestClient_Post_ReturnsDataField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "acme", body["name"])
		w.Write([]byte(`{"data":{"id":"f1","name":"acme"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "secret", time.Second)
	rec, err := c.Post(context.Background(), "/api/v1beta0/user/1/farms/", nil, map[string]interface{}{"name": "acme"})
	require.NoError(t, err)
	assert.Equal(t, "f1", rec["id"])
}

func TestClient_Post_NonTwoXXReturnsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"errors":[{"code":"duplicate","message":"already exists"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "secret", time.Second)
	_, err := c.Post(context.Background(), "/api/v1beta0/user/1/farms/", nil, map[string]interface{}{"name": "acme"})
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusConflict, reqErr.StatusCode)
	assert.Contains(t, string(reqErr.Body), "duplicate")
}

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"f1"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "secret", time.Second)
	rec, err := c.Fetch(context.Background(), "/api/v1beta0/user/1/farms/f1/")
	require.NoError(t, err)
	assert.Equal(t, "f1", rec["id"])
}

func TestClient_Delete(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "secret", time.Second)
	err := c.Delete(context.Background(), "/api/v1beta0/user/1/farms/f1/")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestClient_List_ZeroAndTwoRecordsBothSucceedAtClientLevel(t *testing.T) {
	// The apiclient itself never enforces "exactly one" cardinality; that
	// check belongs to the Executor. Zero or many records are both valid
	// List() results here.
	pages := [][]byte{
		[]byte(`{"data":[],"pagination":{"next":null}}`),
		[]byte(`{"data":[{"id":"a"},{"id":"b"}],"pagination":{"next":null}}`),
	}
	call := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pages[call])
		call++
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "secret", time.Second)
	records, err := c.List(context.Background(), "/api/v1beta0/user/1/farms/", nil)
	require.NoError(t, err)
	assert.Len(t, records, 0)

	records, err = c.List(context.Background(), "/api/v1beta0/user/1/farms/", nil)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
