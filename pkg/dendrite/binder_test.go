package dendrite

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFile struct {
	name string
	size int64
}

func (f *stubFile) Filename() string            { return f.name }
func (f *stubFile) Size() int64                 { return f.size }
func (f *stubFile) Header() map[string][]string { return nil }
func (f *stubFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

// stubContext is a settable RequestContext for exercising plans without a
// web framework
type stubContext struct {
	method   string
	path     string
	request  any
	response any
	session  any
	params   map[string]string
	query    map[string][]string
	headers  map[string][]string
	body     any
	bodyErr  error
	files    map[string][]FileHeader

	nextCalled int
}

func (c *stubContext) Method() string { return c.method }
func (c *stubContext) Path() string   { return c.path }
func (c *stubContext) Request() any   { return c.request }
func (c *stubContext) Response() any  { return c.response }
func (c *stubContext) Session() any   { return c.session }

func (c *stubContext) Next() func() error {
	return func() error {
		c.nextCalled++
		return nil
	}
}

func (c *stubContext) Param(name string) string {
	return c.params[name]
}

func (c *stubContext) Params() map[string]string {
	return c.params
}

func (c *stubContext) Query(name string) string {
	values := c.query[name]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (c *stubContext) QueryValues() map[string][]string {
	return c.query
}

func (c *stubContext) Header(name string) string {
	values := c.headers[name]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (c *stubContext) Headers() map[string][]string {
	return c.headers
}

func (c *stubContext) Body() (any, error) {
	return c.body, c.bodyErr
}

func (c *stubContext) BindBody(v any) error {
	return nil
}

func (c *stubContext) File(name string) (FileHeader, error) {
	headers := c.files[name]
	if len(headers) == 0 {
		return nil, errors.New("no such file field: " + name)
	}
	return headers[0], nil
}

func (c *stubContext) Files() (map[string][]FileHeader, error) {
	return c.files, nil
}

func compileFor(t *testing.T, register func(b *Builder)) *Plan {
	t.Helper()

	registry := NewRegistry()
	register(NewBuilder(registry))

	binder := NewBinder(registry, NewCatalog())
	ids := registry.Handlers()
	require.Len(t, ids, 1)

	plan, err := binder.Compile(ids[0])
	require.NoError(t, err)
	return plan
}

func TestBinder_Compile_OrdersByIndex(t *testing.T) {
	registry := NewRegistry()
	id := HandlerID{Owner: "TodoController", Method: "Update"}

	// Registered out of order on purpose
	registry.Apply(id, 2, Headers("If-Match"))
	registry.Apply(id, 0, RouteParam(Named("id")))
	registry.Apply(id, 1, Body())

	binder := NewBinder(registry, NewCatalog())
	plan, err := binder.Compile(id)
	require.NoError(t, err)

	assert.Equal(t, id, plan.ID())
	assert.Equal(t, 3, plan.Arity())

	descriptors := plan.Descriptors()
	require.Len(t, descriptors, 3)
	assert.Equal(t, 0, descriptors[0].Index)
	assert.Equal(t, 1, descriptors[1].Index)
	assert.Equal(t, 2, descriptors[2].Index)
}

func TestBinder_Compile_UnknownHandler(t *testing.T) {
	binder := NewBinder(NewRegistry(), NewCatalog())

	_, err := binder.Compile(HandlerID{Owner: "Nobody", Method: "Nothing"})
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Contains(t, compileErr.Reason, "no bindings")
}

func TestBinder_Compile_DuplicateIndex(t *testing.T) {
	registry := NewRegistry()
	id := HandlerID{Owner: "TodoController", Method: "Get"}

	registry.Apply(id, 0, Query(Named("id")))
	registry.Apply(id, 0, RouteParam(Named("id")))

	binder := NewBinder(registry, NewCatalog())
	_, err := binder.Compile(id)
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Contains(t, compileErr.Reason, "QUERY")
	assert.Contains(t, compileErr.Reason, "PARAM")
}

func TestBinder_Compile_IndexGap(t *testing.T) {
	registry := NewRegistry()
	id := HandlerID{Owner: "TodoController", Method: "Get"}

	registry.Apply(id, 0, RouteParam(Named("id")))
	registry.Apply(id, 2, Body())

	binder := NewBinder(registry, NewCatalog())
	_, err := binder.Compile(id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parameter 1 has no binding")
}

func TestBinder_Compile_SnapshotsBindings(t *testing.T) {
	registry := NewRegistry()
	id := HandlerID{Owner: "TodoController", Method: "List"}
	registry.Apply(id, 0, Query(Named("page")))

	binder := NewBinder(registry, NewCatalog())
	plan, err := binder.Compile(id)
	require.NoError(t, err)

	// The plan reads the table once at compile time; later registry
	// writes must not reach it
	registry.Apply(id, 1, Body())
	assert.Equal(t, 1, plan.Arity())
}

func TestPlan_Resolve_NamedValues(t *testing.T) {
	plan := compileFor(t, func(b *Builder) {
		b.Handler("TodoController", "Update").
			Bind(0, RouteParam(Named("id"), Pipeline(ToInt()))).
			Bind(1, Query(Named("verbose"))).
			Bind(2, Headers("Authorization"))
	})

	c := &stubContext{
		params:  map[string]string{"id": "42"},
		query:   map[string][]string{"verbose": {"yes"}},
		headers: map[string][]string{"Authorization": {"Bearer token"}},
	}

	args, err := plan.Resolve(c)
	require.NoError(t, err)
	require.Len(t, args, 3)

	assert.Equal(t, 42, args[0])
	assert.Equal(t, "yes", args[1])
	assert.Equal(t, "Bearer token", args[2])
}

func TestPlan_Resolve_WholeSourceValues(t *testing.T) {
	plan := compileFor(t, func(b *Builder) {
		b.Handler("TodoController", "Inspect").
			Bind(0, Query()).
			Bind(1, Headers()).
			Bind(2, RouteParam())
	})

	c := &stubContext{
		params:  map[string]string{"id": "42"},
		query:   map[string][]string{"page": {"1"}, "limit": {"20"}},
		headers: map[string][]string{"Accept": {"application/json"}},
	}

	args, err := plan.Resolve(c)
	require.NoError(t, err)

	assert.Equal(t, c.query, args[0])
	assert.Equal(t, c.headers, args[1])
	assert.Equal(t, c.params, args[2])
}

func TestPlan_Resolve_NativeObjects(t *testing.T) {
	type fakeRequest struct{ id int }
	type fakeResponse struct{ id int }

	plan := compileFor(t, func(b *Builder) {
		b.Handler("RawController", "Handle").
			Bind(0, Req()).
			Bind(1, Res()).
			Bind(2, SessionObject())
	})

	request := &fakeRequest{id: 1}
	response := &fakeResponse{id: 2}
	session := map[string]any{"user": "ada"}

	c := &stubContext{request: request, response: response, session: session}

	args, err := plan.Resolve(c)
	require.NoError(t, err)

	assert.Same(t, request, args[0])
	assert.Same(t, response, args[1])
	assert.Equal(t, session, args[2])
}

func TestPlan_Resolve_NextCallback(t *testing.T) {
	plan := compileFor(t, func(b *Builder) {
		b.Handler("ChainController", "Handle").Bind(0, NextCallback())
	})

	c := &stubContext{}
	args, err := plan.Resolve(c)
	require.NoError(t, err)

	next, ok := args[0].(func() error)
	require.True(t, ok)

	require.NoError(t, next())
	assert.Equal(t, 1, c.nextCalled)
}

func TestPlan_Resolve_Body(t *testing.T) {
	t.Run("whole body", func(t *testing.T) {
		plan := compileFor(t, func(b *Builder) {
			b.Handler("TodoController", "Create").Bind(0, Body())
		})

		body := map[string]any{"title": "write tests"}
		args, err := plan.Resolve(&stubContext{body: body})
		require.NoError(t, err)
		assert.Equal(t, body, args[0])
	})

	t.Run("named property", func(t *testing.T) {
		plan := compileFor(t, func(b *Builder) {
			b.Handler("TodoController", "Create").Bind(0, Body(Named("title")))
		})

		args, err := plan.Resolve(&stubContext{body: map[string]any{"title": "write tests"}})
		require.NoError(t, err)
		assert.Equal(t, "write tests", args[0])
	})

	t.Run("missing property resolves to nil", func(t *testing.T) {
		plan := compileFor(t, func(b *Builder) {
			b.Handler("TodoController", "Create").Bind(0, Body(Named("missing")))
		})

		args, err := plan.Resolve(&stubContext{body: map[string]any{"title": "x"}})
		require.NoError(t, err)
		assert.Nil(t, args[0])
	})

	t.Run("property on non-object body", func(t *testing.T) {
		plan := compileFor(t, func(b *Builder) {
			b.Handler("TodoController", "Create").Bind(0, Body(Named("title")))
		})

		_, err := plan.Resolve(&stubContext{body: "just a string"})
		require.Error(t, err)

		var bindErr *BindError
		require.ErrorAs(t, err, &bindErr)
		assert.Equal(t, "BODY:0", bindErr.Key)
	})

	t.Run("body decode error", func(t *testing.T) {
		plan := compileFor(t, func(b *Builder) {
			b.Handler("TodoController", "Create").Bind(0, Body())
		})

		_, err := plan.Resolve(&stubContext{bodyErr: errors.New("malformed json")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed json")
	})
}

func TestPlan_Resolve_Files(t *testing.T) {
	avatar := &stubFile{name: "avatar.png", size: 100}
	cover := &stubFile{name: "cover.png", size: 200}

	t.Run("named file field", func(t *testing.T) {
		plan := compileFor(t, func(b *Builder) {
			b.Handler("ProfileController", "SetAvatar").Bind(0, UploadedFile("avatar"))
		})

		c := &stubContext{files: map[string][]FileHeader{"avatar": {avatar}}}
		args, err := plan.Resolve(c)
		require.NoError(t, err)
		assert.Same(t, avatar, args[0])
	})

	t.Run("unnamed with single file", func(t *testing.T) {
		plan := compileFor(t, func(b *Builder) {
			b.Handler("ProfileController", "SetAvatar").Bind(0, UploadedFile())
		})

		c := &stubContext{files: map[string][]FileHeader{"avatar": {avatar}}}
		args, err := plan.Resolve(c)
		require.NoError(t, err)
		assert.Same(t, avatar, args[0])
	})

	t.Run("unnamed with several files", func(t *testing.T) {
		plan := compileFor(t, func(b *Builder) {
			b.Handler("ProfileController", "SetAvatar").Bind(0, UploadedFile())
		})

		c := &stubContext{files: map[string][]FileHeader{"avatar": {avatar}, "cover": {cover}}}
		_, err := plan.Resolve(c)
		assert.Error(t, err)
	})

	t.Run("unnamed with no files", func(t *testing.T) {
		plan := compileFor(t, func(b *Builder) {
			b.Handler("ProfileController", "SetAvatar").Bind(0, UploadedFile())
		})

		_, err := plan.Resolve(&stubContext{})
		assert.Error(t, err)
	})

	t.Run("all files", func(t *testing.T) {
		plan := compileFor(t, func(b *Builder) {
			b.Handler("GalleryController", "Upload").Bind(0, UploadedFiles())
		})

		files := map[string][]FileHeader{"images": {avatar, cover}}
		args, err := plan.Resolve(&stubContext{files: files})
		require.NoError(t, err)
		assert.Equal(t, files, args[0])
	})
}

func TestPlan_Resolve_TransformFailure(t *testing.T) {
	plan := compileFor(t, func(b *Builder) {
		b.Handler("TodoController", "Get").
			Bind(0, RouteParam(Named("id"), Pipeline(ToInt())))
	})

	_, err := plan.Resolve(&stubContext{params: map[string]string{"id": "abc"}})
	require.Error(t, err)

	var bindErr *BindError
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, "PARAM:0", bindErr.Key)
	assert.Equal(t, HandlerID{Owner: "TodoController", Method: "Get"}, bindErr.Handler)
	assert.Contains(t, err.Error(), "transform int")
}

func TestPlan_Resolve_TransformsRunInOrder(t *testing.T) {
	var order []string
	record := func(name string) Transform {
		return TransformFunc(name, func(c RequestContext, value any) (any, error) {
			order = append(order, name)
			return value, nil
		})
	}

	plan := compileFor(t, func(b *Builder) {
		b.Handler("TodoController", "Get").
			Bind(0, Query(Named("q"), Pipeline(record("first"), record("second"), record("third"))))
	})

	_, err := plan.Resolve(&stubContext{query: map[string][]string{"q": {"x"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestPlan_Handler(t *testing.T) {
	plan := compileFor(t, func(b *Builder) {
		b.Handler("TodoController", "Get").
			Bind(0, RouteParam(Named("id"), Pipeline(ToInt())))
	})

	var got []any
	handler := plan.Handler(func(args []any) error {
		got = append([]any(nil), args...)
		return nil
	})

	err := handler(&stubContext{params: map[string]string{"id": "7"}})
	require.NoError(t, err)
	assert.Equal(t, []any{7}, got)

	t.Run("resolve failure skips invoke", func(t *testing.T) {
		invoked := false
		failing := plan.Handler(func(args []any) error {
			invoked = true
			return nil
		})

		err := failing(&stubContext{params: map[string]string{"id": "abc"}})
		assert.Error(t, err)
		assert.False(t, invoked)
	})
}
