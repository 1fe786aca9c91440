package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	mem "lost-pets/internal/adapters/storage/memory"
	"lost-pets/internal/router"
)

type petJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Gender     string `json:"gender"`
	Image      string `json:"image"`
	IsFavorite bool   `json:"isFavorite"`
}

func TestHTTP_EndToEnd_CreateListFavorite(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	// 1) Lista vacía al inicio
	{
		st, body := doReq(t, ts.URL, "GET", "/pets", nil)
		if st != http.StatusOK || string(bytes.TrimSpace(body)) != "[]" {
			t.Fatalf("expected 200 [], got %d body=%s", st, string(body))
		}
	}

	// 2) Crear dos mascotas
	luna := createPet(t, ts.URL, map[string]string{"name": "Luna", "type": "cat", "gender": "female"}, "image/png", pngBytes(t))
	rex := createPet(t, ts.URL, map[string]string{"name": "Rex", "type": "dog"}, "image/png", pngBytes(t))

	if rex.Gender != "male" || rex.IsFavorite {
		t.Fatalf("unexpected defaults on created pet: %#v", rex)
	}
	if len(rex.Image) < len("data:image/png;base64,") || rex.Image[:22] != "data:image/png;base64," {
		t.Fatalf("expected data uri image, got %.30s", rex.Image)
	}

	// 3) Listado en orden de inserción
	list := listPets(t, ts.URL, "/pets")
	if len(list) != 2 || list[0].ID != luna.ID || list[1].ID != rex.ID {
		t.Fatalf("unexpected list order: %#v", list)
	}

	// 4) Favoritas vacías
	if fav := listPets(t, ts.URL, "/pets?favorites=true"); len(fav) != 0 {
		t.Fatalf("expected no favorites, got %d", len(fav))
	}

	// 5) Marcar Rex como favorita
	{
		st, body := doJSON(t, ts.URL, "PUT", "/pets/"+rex.ID+"/favorite", map[string]any{"isFavorite": true})
		if st != http.StatusOK {
			t.Fatalf("expected 200 set favorite, got %d body=%s", st, string(body))
		}
		var items []petJSON
		_ = json.Unmarshal(body, &items)
		if len(items) != 2 || items[0].IsFavorite || !items[1].IsFavorite {
			t.Fatalf("unexpected list after favorite: %#v", items)
		}
	}
	if fav := listPets(t, ts.URL, "/pets?favorites=true"); len(fav) != 1 || fav[0].ID != rex.ID {
		t.Fatalf("expected only rex favorite, got %#v", fav)
	}

	// 6) Toggle desde el detalle
	{
		st, body := doReq(t, ts.URL, "POST", "/pets/"+rex.ID+"/favorite/toggle", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 toggle, got %d body=%s", st, string(body))
		}
		var p petJSON
		_ = json.Unmarshal(body, &p)
		if p.IsFavorite {
			t.Fatalf("expected toggled off")
		}
	}

	// 7) Detalle
	{
		st, body := doReq(t, ts.URL, "GET", "/pets/"+luna.ID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 detail, got %d body=%s", st, string(body))
		}
		var p petJSON
		_ = json.Unmarshal(body, &p)
		if p.Name != "Luna" || p.Type != "cat" {
			t.Fatalf("unexpected detail: %#v", p)
		}
	}
}

func TestHTTP_SetFavorite_UnknownID_IsNoOp(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	rex := createPet(t, ts.URL, map[string]string{"name": "Rex", "type": "dog"}, "image/png", pngBytes(t))

	st, body := doJSON(t, ts.URL, "PUT", "/pets/missing/favorite", map[string]any{"isFavorite": true})
	if st != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", st, string(body))
	}
	var items []petJSON
	_ = json.Unmarshal(body, &items)
	if len(items) != 1 || items[0].ID != rex.ID || items[0].IsFavorite {
		t.Fatalf("list should be unchanged: %#v", items)
	}
}

func TestHTTP_NotFound(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	if st, _ := doReq(t, ts.URL, "GET", "/pets/nope", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 detail, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "POST", "/pets/nope/favorite/toggle", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 toggle, got %d", st)
	}
}

func TestHTTP_Create_ValidationErrors(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := postForm(t, ts.URL, map[string]string{"name": "Al", "type": "dragon"}, "image/gif", []byte("GIF89a"))
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", st, string(body))
	}

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("expected json body: %v", err)
	}
	for _, f := range []string{"name", "type", "image"} {
		if resp.Fields[f] == "" {
			t.Fatalf("expected field error %s, got %#v", f, resp.Fields)
		}
	}

	// nada se guardó
	if list := listPets(t, ts.URL, "/pets"); len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}
}

func TestHTTP_Create_ImageOverConfiguredLimit(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{MaxImageBytes: 16}))
	defer ts.Close()

	st, body := postForm(t, ts.URL, map[string]string{"name": "Rex", "type": "dog"}, "image/png", pngBytes(t))
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", st, string(body))
	}
}

func TestHTTP_Create_PersistenceFailure(t *testing.T) {
	store := mem.NewKV(mem.WithQuota(32))
	ts := httptest.NewServer(router.NewRouter(router.Options{Store: store}))
	defer ts.Close()

	st, _ := postForm(t, ts.URL, map[string]string{"name": "Rex", "type": "dog"}, "image/png", pngBytes(t))
	if st != http.StatusInternalServerError {
		t.Fatalf("expected 500 on quota exceeded, got %d", st)
	}
}

func TestHTTP_List_DegradesOnCorruptSlot(t *testing.T) {
	store := mem.NewKV()
	if err := store.Set(context.Background(), "pets_items", []byte("{corrupt")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	ts := httptest.NewServer(router.NewRouter(router.Options{Store: store}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "GET", "/pets", nil)
	if st != http.StatusOK || string(bytes.TrimSpace(body)) != "[]" {
		t.Fatalf("expected degraded 200 [], got %d body=%s", st, string(body))
	}

	// Append no pisa el valor corrupto
	if st, _ := postForm(t, ts.URL, map[string]string{"name": "Rex", "type": "dog"}, "image/png", pngBytes(t)); st != http.StatusInternalServerError {
		t.Fatalf("expected 500 append over corrupt slot, got %d", st)
	}
}

func TestHTTP_CustomKey(t *testing.T) {
	store := mem.NewKV()
	ts := httptest.NewServer(router.NewRouter(router.Options{Store: store, Key: "other_items"}))
	defer ts.Close()

	createPet(t, ts.URL, map[string]string{"name": "Rex", "type": "dog"}, "image/png", pngBytes(t))

	if _, ok, _ := store.Get(context.Background(), "other_items"); !ok {
		t.Fatalf("expected list under custom key")
	}
	if _, ok, _ := store.Get(context.Background(), "pets_items"); ok {
		t.Fatalf("default key should stay untouched")
	}
}

func TestHTTP_SetFavorite_BadBody(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	if st, _ := doJSON(t, ts.URL, "PUT", "/pets/a/favorite", map[string]any{}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing isFavorite, got %d", st)
	}
	if st, _ := doJSON(t, ts.URL, "PUT", "/pets/a/favorite", map[string]any{"isFavorite": true, "x": 1}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/pets?favorites=maybe", nil); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad favorites query, got %d", st)
	}
}

func TestHTTP_PetTypesAndDocs(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "GET", "/pet-types", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 pet-types, got %d", st)
	}
	var types []string
	_ = json.Unmarshal(body, &types)
	if len(types) == 0 || types[0] != "dog" {
		t.Fatalf("unexpected types: %v", types)
	}

	if st, _ := doReq(t, ts.URL, "GET", "/health", nil); st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}

	st, body = doReq(t, ts.URL, "GET", "/swagger/doc.json", nil)
	if st != http.StatusOK || !bytes.Contains(body, []byte(`"/pets"`)) {
		t.Fatalf("expected swagger doc, got %d", st)
	}
}

// -------------------------
// helpers
// -------------------------

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func createPet(t *testing.T, baseURL string, fields map[string]string, mimeType string, img []byte) petJSON {
	t.Helper()

	st, body := postForm(t, baseURL, fields, mimeType, img)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var p petJSON
	_ = json.Unmarshal(body, &p)
	if p.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return p
}

func listPets(t *testing.T, baseURL, path string) []petJSON {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", path, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list, got %d body=%s", st, string(body))
	}
	var out []petJSON
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("list json: %v", err)
	}
	return out
}

func postForm(t *testing.T, baseURL string, fields map[string]string, mimeType string, img []byte) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if img != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="pet"`)
		h.Set("Content-Type", mimeType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write(img)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/pets", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return send(t, req)
}

func doJSON(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(b))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return send(t, req)
}

func doReq(t *testing.T, baseURL, method, path string, body io.Reader) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return send(t, req)
}

func send(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
