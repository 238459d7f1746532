package adapters

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/toyz/dendrite/pkg/dendrite"
)

func init() {
	// Set Gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

func TestWrapGin_ResolvesParameters(t *testing.T) {
	reg := dendrite.NewRegistry()
	b := dendrite.NewBuilder(reg)
	b.Handler("UserController", "Show").
		Bind(0, dendrite.RouteParam(dendrite.Named("id"), dendrite.Pipeline(dendrite.ToInt()))).
		Bind(1, dendrite.Query(dendrite.Named("name")))

	binder := dendrite.NewBinder(reg, dendrite.NewCatalog())
	plan, err := binder.Compile(dendrite.HandlerID{Owner: "UserController", Method: "Show"})
	if err != nil {
		t.Fatalf("Failed to compile plan: %v", err)
	}

	var got []any
	engine := gin.New()
	engine.GET("/users/:id", WrapGin(plan.Handler(func(args []any) error {
		got = append([]any(nil), args...)
		return nil
	})))

	req := httptest.NewRequest("GET", "/users/42?name=john", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 resolved arguments, got %d", len(got))
	}
	if got[0] != 42 {
		t.Errorf("Expected first argument 42, got %v", got[0])
	}
	if got[1] != "john" {
		t.Errorf("Expected second argument 'john', got %v", got[1])
	}
}

func TestWrapGin_BindFailureReturns400(t *testing.T) {
	reg := dendrite.NewRegistry()
	dendrite.NewBuilder(reg).Handler("UserController", "Show").
		Bind(0, dendrite.RouteParam(dendrite.Named("id"), dendrite.Pipeline(dendrite.ToInt())))

	binder := dendrite.NewBinder(reg, dendrite.NewCatalog())
	plan, err := binder.Compile(dendrite.HandlerID{Owner: "UserController", Method: "Show"})
	if err != nil {
		t.Fatalf("Failed to compile plan: %v", err)
	}

	engine := gin.New()
	engine.GET("/users/:id", WrapGin(plan.Handler(func(args []any) error {
		t.Error("Handler should not be invoked when resolution fails")
		return nil
	})))

	req := httptest.NewRequest("GET", "/users/abc", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != 400 {
		t.Errorf("Expected status 400 for failed binding, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "transform") {
		t.Errorf("Expected transform failure in body, got %s", rec.Body.String())
	}
}

func TestWrapGin_HandlerErrorReturns500(t *testing.T) {
	engine := gin.New()
	engine.GET("/boom", WrapGin(func(ctx dendrite.RequestContext) error {
		return errors.New("database down")
	}))

	req := httptest.NewRequest("GET", "/boom", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != 500 {
		t.Errorf("Expected status 500 for handler error, got %d", rec.Code)
	}
}

func TestGinContext_RequestData(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/users/7?tag=go&tag=web", nil)
	c.Request.Header.Set("X-Request-Id", "req-1")
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	ctx := NewGinContext(c)

	if ctx.Method() != "GET" {
		t.Errorf("Expected method GET, got %s", ctx.Method())
	}
	if ctx.Path() != "/users/7" {
		t.Errorf("Expected path /users/7, got %s", ctx.Path())
	}
	if ctx.Param("id") != "7" {
		t.Errorf("Expected param id=7, got %s", ctx.Param("id"))
	}
	if params := ctx.Params(); params["id"] != "7" {
		t.Errorf("Expected params map with id=7, got %v", params)
	}
	if ctx.Query("tag") != "go" {
		t.Errorf("Expected first tag value 'go', got %s", ctx.Query("tag"))
	}
	if tags := ctx.QueryValues()["tag"]; len(tags) != 2 {
		t.Errorf("Expected 2 tag values, got %v", tags)
	}
	if ctx.Header("X-Request-Id") != "req-1" {
		t.Errorf("Expected header X-Request-Id=req-1, got %s", ctx.Header("X-Request-Id"))
	}
	if values := ctx.Headers()["X-Request-Id"]; len(values) != 1 || values[0] != "req-1" {
		t.Errorf("Expected headers map entry for X-Request-Id, got %v", values)
	}
}

func TestGinContext_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("POST", "/users", strings.NewReader(`{"name":"ada","age":36}`))
	c.Request.Header.Set("Content-Type", "application/json")

	ctx := NewGinContext(c)

	body, err := ctx.Body()
	if err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	obj, ok := body.(map[string]any)
	if !ok {
		t.Fatalf("Expected body to decode to a map, got %T", body)
	}
	if obj["name"] != "ada" {
		t.Errorf("Expected name 'ada', got %v", obj["name"])
	}

	// The body stays readable after Body consumed it
	var target struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	if err := ctx.BindBody(&target); err != nil {
		t.Fatalf("Failed to bind body after Body: %v", err)
	}
	if target.Name != "ada" || target.Age != 36 {
		t.Errorf("Expected bound struct {ada 36}, got %+v", target)
	}
}

func TestGinContext_NativeObjects(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/", nil)

	ctx := NewGinContext(c)

	if ctx.Request() != c.Request {
		t.Error("Expected Request to return the underlying *http.Request")
	}
	if ctx.Response() != c.Writer {
		t.Error("Expected Response to return the underlying gin.ResponseWriter")
	}

	if ctx.Session() != nil {
		t.Errorf("Expected nil session before middleware set one, got %v", ctx.Session())
	}
	c.Set(SessionKey, "session-object")
	if ctx.Session() != "session-object" {
		t.Errorf("Expected session 'session-object', got %v", ctx.Session())
	}
}

func TestGinContext_NextRunsChain(t *testing.T) {
	var order []string

	engine := gin.New()
	engine.GET("/chain",
		WrapGin(func(ctx dendrite.RequestContext) error {
			order = append(order, "before")
			if err := ctx.Next()(); err != nil {
				return err
			}
			order = append(order, "after")
			return nil
		}),
		func(c *gin.Context) {
			order = append(order, "chained")
		},
	)

	req := httptest.NewRequest("GET", "/chain", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	// The continuation runs the rest of the chain before the handler
	// resumes
	expected := []string{"before", "chained", "after"}
	if len(order) != len(expected) {
		t.Fatalf("Expected order %v, got %v", expected, order)
	}
	for i, step := range expected {
		if order[i] != step {
			t.Errorf("Expected step %d to be %s, got %s", i, step, order[i])
		}
	}
}
