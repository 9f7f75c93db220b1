package project

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"collab-platform/internal/token"

	"github.com/gin-gonic/gin"
)

func identityMW(id token.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(token.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func seedStore(t *testing.T) (*MemoryStore, Project, Project) {
	t.Helper()
	s := NewMemoryStore()
	mine, err := s.Insert(context.Background(), Project{ClientUID: "u1", Title: "Shop rebuild"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	other, err := s.Insert(context.Background(), Project{ClientUID: "u2", DeveloperUID: "dev9", Title: "API integration"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	return s, mine, other
}

func TestList_OnlyOwnProjects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, mine, _ := seedStore(t)

	r := gin.New()
	r.GET("/projects", identityMW(token.Identity{UID: "u1", Role: "client"}), Handlers{Store: s}.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}

	var body struct {
		Projects []Project `json:"projects"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if len(body.Projects) != 1 || body.Projects[0].ID != mine.ID {
		t.Fatalf("expected only own project, got %+v", body.Projects)
	}
}

func TestCreate_OpensQuoteRequestForCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewMemoryStore()

	r := gin.New()
	r.POST("/projects", identityMW(token.Identity{UID: "u1", Role: "client"}), Handlers{Store: s}.Create)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"title":"  Shop rebuild ","description":"storefront + checkout"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d body=%s", w.Code, w.Body.String())
	}

	var created Project
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("body: %v", err)
	}
	if created.ClientUID != "u1" || created.Title != "Shop rebuild" || created.Status != StatusQuoteRequested {
		t.Fatalf("unexpected project: %+v", created)
	}

	got, err := s.ListForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("expected created project in listing, got %+v", got)
	}
}

func TestCreate_RejectsBlankTitle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/projects", identityMW(token.Identity{UID: "u1", Role: "client"}), Handlers{Store: NewMemoryStore()}.Create)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(`{"title":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank title: %d", w.Code)
	}
}

func TestGet_ForeignProjectReadsAsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, mine, other := seedStore(t)

	r := gin.New()
	r.GET("/projects/:project_id", identityMW(token.Identity{UID: "u1", Role: "client"}), Handlers{Store: s}.Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/"+mine.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("own project: %d", w.Code)
	}

	// Foreign and missing projects are indistinguishable.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/"+other.ID, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign project: %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing project: %d", w.Code)
	}
}

func TestGet_AdminSeesAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, _, other := seedStore(t)

	r := gin.New()
	r.GET("/projects/:project_id", identityMW(token.Identity{UID: "staff", Role: "admin"}), Handlers{Store: s}.Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/"+other.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("admin read: %d", w.Code)
	}
}

func TestDeveloperSeesAssignedProjects(t *testing.T) {
	s, _, other := seedStore(t)

	got, err := s.ListForUser(context.Background(), "dev9")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != other.ID {
		t.Fatalf("expected assigned project, got %+v", got)
	}
}
