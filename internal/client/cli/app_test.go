package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/client/auth"
	"github.com/dmitrijs2005/gophdiary/internal/client/client"
	"github.com/dmitrijs2005/gophdiary/internal/client/config"
	"github.com/dmitrijs2005/gophdiary/internal/client/models"
	"github.com/dmitrijs2005/gophdiary/internal/client/repositories/entries"
	"github.com/dmitrijs2005/gophdiary/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophdiary/internal/client/services"
	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu      sync.Mutex
	entries []models.Entry
	nextID  int
	listErr error
	lists   int
	created []models.NewEntry
	deleted []string
}

func (f *fakeAPI) List(context.Context) ([]models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Entry{}, f.entries...), nil
}

func (f *fakeAPI) Create(_ context.Context, e models.NewEntry) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	created := models.Entry{
		ID:        fmt.Sprintf("%08d-new", f.nextID),
		Content:   e.Content,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	f.created = append(f.created, e)
	f.entries = append([]models.Entry{created}, f.entries...)
	return &created, nil
}

func (f *fakeAPI) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return client.ErrNotFound
}

func (f *fakeAPI) Ping(context.Context) error { return nil }
func (f *fakeAPI) Close() error               { return nil }

type fakeAuth struct {
	session   *models.Session
	restore   *models.Session
	listener  auth.Listener
	gotToken  string
	tokenErr  error
	signedOut bool
	pingErr   error
}

func (f *fakeAuth) Restore(context.Context) (*models.Session, error) {
	f.session = f.restore
	return f.restore, nil
}

func (f *fakeAuth) SignIn(ctx context.Context) (*models.Session, error) {
	return nil, errors.New("no browser in tests")
}

func (f *fakeAuth) SignInWithToken(ctx context.Context, token []byte) (*models.Session, error) {
	f.gotToken = string(token)
	common.WipeByteArray(token)
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	f.session = &models.Session{AccessToken: f.gotToken, UserID: "user-1", Email: "me@example.com"}
	if f.listener != nil {
		f.listener(ctx, f.session)
	}
	return f.session, nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.signedOut = true
	f.session = nil
	if f.listener != nil {
		f.listener(ctx, nil)
	}
	return nil
}

func (f *fakeAuth) Session() *models.Session { return f.session }

func (f *fakeAuth) Subscribe(fn auth.Listener) func() {
	f.listener = fn
	return func() { f.listener = nil }
}

func (f *fakeAuth) Ping(context.Context) error  { return f.pingErr }
func (f *fakeAuth) Close(context.Context) error { return nil }

type fakeSources map[string]string

func (f fakeSources) Read(_ context.Context, src string) (string, error) {
	text, ok := f[src]
	if !ok {
		return "", fmt.Errorf("open %s: %w", src, common.ErrorNotFound)
	}
	return text, nil
}

type testApp struct {
	*App
	api  *fakeAPI
	auth *fakeAuth
	meta metadata.Repository
	out  *strings.Builder
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	ctx := context.Background()

	oldTerm := isTerminal
	t.Cleanup(func() { isTerminal = oldTerm })
	isTerminal = func() bool { return false }
	out := captureOutput(t)

	db, err := client.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger, err := logging.New(logging.FormatJSON, "error", io.Discard)
	require.NoError(t, err)

	api := &fakeAPI{}
	fa := &fakeAuth{}
	meta := metadata.NewSQLiteRepository(db)

	app := &App{
		config:       &config.Config{OnlineCheckInterval: time.Hour},
		logger:       logger,
		authService:  fa,
		entryService: services.NewEntryService(api, entries.NewMemoryRepository(), logger),
		prefs:        services.NewPreferenceService(db),
		sources:      fakeSources{},
		reader:       rdr(input),
		theme:        models.DefaultTheme,
	}
	return &testApp{App: app, api: api, auth: fa, meta: meta, out: out}
}

func (ta *testApp) signIn(t *testing.T) {
	t.Helper()
	ta.auth.restore = &models.Session{AccessToken: "tok", UserID: "user-1", Email: "me@example.com"}
	require.NoError(t, ta.Start(context.Background()))
}

func TestApp_StartRestoresSessionAndTheme(t *testing.T) {
	ta := newTestApp(t, "")
	require.NoError(t, ta.meta.Set(context.Background(), metadata.KeyTheme, []byte("dark")))

	ta.signIn(t)

	assert.True(t, ta.isLoggedIn())
	assert.Equal(t, models.ThemeDark, ta.getTheme())
	assert.NotNil(t, ta.auth.listener)
	assert.Equal(t, "(me@example.com)", ta.getStatus())

	ta.setMode(ModeOffline)
	assert.Equal(t, "(me@example.com offline)", ta.getStatus())
}

func TestApp_SessionChangeRefreshesAndClears(t *testing.T) {
	ta := newTestApp(t, "")
	ta.api.entries = []models.Entry{{ID: "a1", Content: "one"}}
	require.NoError(t, ta.Start(context.Background()))
	ctx := context.Background()

	ta.auth.listener(ctx, &models.Session{AccessToken: "t1", UserID: "u1"})
	assert.Equal(t, 1, ta.api.lists)
	assert.Len(t, ta.entryService.Entries(), 1)

	// token refresh for the same user
	ta.auth.listener(ctx, &models.Session{AccessToken: "t2", UserID: "u1"})
	assert.Equal(t, 1, ta.api.lists)

	ta.auth.listener(ctx, &models.Session{AccessToken: "t3", UserID: "u2"})
	assert.Equal(t, 2, ta.api.lists)

	ta.auth.listener(ctx, nil)
	assert.Empty(t, ta.entryService.Entries())
	assert.False(t, ta.isLoggedIn())
}

func TestApp_List(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t)

	require.NoError(t, ta.List(context.Background()))
	assert.Contains(t, ta.out.String(), "No entries yet.")

	ta.out.Reset()
	ta.api.entries = []models.Entry{
		{ID: "0123456789abcdef", Content: "line one\nline two", CreatedAt: time.Now()},
	}
	require.NoError(t, ta.List(context.Background()))

	s := ta.out.String()
	assert.Contains(t, s, "01234567 ")
	assert.NotContains(t, s, "0123456789abcdef")
	assert.Contains(t, s, "    line one\n    line two\n")
	assert.Contains(t, s, "1 entries")
}

func TestApp_ListFailureShowsLastLoaded(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t)
	ta.api.entries = []models.Entry{{ID: "keep", Content: "cached"}}
	require.NoError(t, ta.List(context.Background()))

	ta.out.Reset()
	ta.api.listErr = fmt.Errorf("list entries: %w", client.ErrUnavailable)
	err := ta.List(context.Background())

	require.ErrorIs(t, err, client.ErrUnavailable)
	s := ta.out.String()
	assert.Contains(t, s, "unreachable")
	assert.Contains(t, s, "Showing the last loaded list:")
	assert.Contains(t, s, "cached")
}

func TestApp_Add(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t)

	require.NoError(t, ta.Add(context.Background(), []string{"hello", "diary"}))
	require.Len(t, ta.api.created, 1)
	assert.Equal(t, "hello diary", ta.api.created[0].Content)
	assert.Empty(t, ta.api.created[0].CreatedAt)
	assert.Contains(t, ta.out.String(), "Saved entry 00000001.")
	assert.Len(t, ta.entryService.Entries(), 1)
}

func TestApp_AddMultiline(t *testing.T) {
	ta := newTestApp(t, "first line\n\nsecond\n.\n")
	ta.signIn(t)

	require.NoError(t, ta.Add(context.Background(), nil))
	require.Len(t, ta.api.created, 1)
	assert.Equal(t, "first line\n\nsecond", ta.api.created[0].Content)
}

func TestApp_AddNothing(t *testing.T) {
	ta := newTestApp(t, ".\n")
	ta.signIn(t)

	require.NoError(t, ta.Add(context.Background(), nil))
	assert.Empty(t, ta.api.created)
	assert.Contains(t, ta.out.String(), "Nothing to save.")
}

func TestApp_Delete(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t)
	ta.api.entries = []models.Entry{{ID: "abc123"}, {ID: "abd456"}, {ID: "xyz789"}}
	_, err := ta.entryService.Refresh(context.Background())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, ta.Delete(ctx, []string{"xy"}))
	assert.Equal(t, []string{"xyz789"}, ta.api.deleted)

	err = ta.Delete(ctx, []string{"ab"})
	require.ErrorIs(t, err, errAmbiguousID)
	assert.Len(t, ta.api.deleted, 1)

	err = ta.Delete(ctx, []string{"missing"})
	require.ErrorIs(t, err, client.ErrNotFound)
	assert.Contains(t, ta.out.String(), "Entry not found.")

	require.NoError(t, ta.Delete(ctx, nil))
	assert.Contains(t, ta.out.String(), "Usage: delete <id>")
}

func TestApp_DeleteExactIDWinsOverPrefix(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t)
	ta.api.entries = []models.Entry{{ID: "abc1"}, {ID: "abc2"}, {ID: "abc"}}
	_, err := ta.entryService.Refresh(context.Background())
	require.NoError(t, err)

	require.NoError(t, ta.Delete(context.Background(), []string{"abc"}))
	assert.Equal(t, []string{"abc"}, ta.api.deleted)
}

func TestApp_Import(t *testing.T) {
	ta := newTestApp(t, "")
	ta.signIn(t)
	ta.sources = fakeSources{
		"diary.txt": "##### DATE: 2024-01-02 #####\nT1\n--------\nB1\n##### END #####\n" +
			"##### DATE: 2024-01-03 #####\nT2\n--------\nB2\n##### END #####\n" +
			"##### DATE: 2024-01-04 #####\nunterminated\n",
		"garbage.txt": "nothing here",
	}
	ctx := context.Background()

	require.NoError(t, ta.Import(ctx, []string{"diary.txt"}))
	require.Len(t, ta.api.created, 2)
	assert.Equal(t, "2024-01-02", ta.api.created[0].CreatedAt)
	assert.Equal(t, "Date: 2024-01-02\nTitle: T1\nB1", ta.api.created[0].Content)
	s := ta.out.String()
	assert.Contains(t, s, "Imported 2 entries.")
	assert.Contains(t, s, "1 incomplete blocks skipped.")

	ta.out.Reset()
	err := ta.Import(ctx, []string{"garbage.txt"})
	require.ErrorIs(t, err, services.ErrInvalidImport)
	assert.Contains(t, ta.out.String(), "Not a valid diary file")
	assert.NotContains(t, ta.out.String(), "Imported")
	assert.Len(t, ta.api.created, 2)

	err = ta.Import(ctx, []string{"absent.txt"})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestApp_ImportRequiresSession(t *testing.T) {
	ta := newTestApp(t, "")
	ta.sources = fakeSources{"d.txt": "##### DATE: 2024-01-02 #####\nT\n##### END #####\n"}

	err := ta.Import(context.Background(), []string{"d.txt"})
	require.ErrorIs(t, err, client.ErrNotSignedIn)
	assert.Empty(t, ta.api.created)
}

func TestApp_Theme(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, ta.Theme(ctx, nil))
	assert.Equal(t, models.ThemeDark, ta.getTheme())
	stored, err := ta.meta.Get(ctx, metadata.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", string(stored))

	require.NoError(t, ta.Theme(ctx, []string{"LIGHT"}))
	assert.Equal(t, models.ThemeLight, ta.getTheme())

	require.Error(t, ta.Theme(ctx, []string{"neon"}))
	assert.Equal(t, models.ThemeLight, ta.getTheme())
}

func TestApp_LoginWithToken(t *testing.T) {
	ta := newTestApp(t, "")
	require.NoError(t, ta.Start(context.Background()))

	var handed []byte
	old := getSecret
	t.Cleanup(func() { getSecret = old })
	getSecret = func(_ *bufio.Reader, _ string, _ io.Writer) ([]byte, error) {
		handed = []byte("pasted")
		return handed, nil
	}

	require.NoError(t, ta.Login(context.Background(), []string{"token"}))
	assert.Equal(t, "pasted", ta.auth.gotToken)
	assert.Equal(t, make([]byte, len("pasted")), handed)
	assert.True(t, ta.isLoggedIn())
	assert.Contains(t, ta.out.String(), "Signed in as me@example.com.")

	ta.out.Reset()
	require.NoError(t, ta.Login(context.Background(), nil))
	assert.Contains(t, ta.out.String(), "Already signed in.")

	require.NoError(t, ta.Logout(context.Background()))
	assert.True(t, ta.auth.signedOut)
	assert.False(t, ta.isLoggedIn())
}

func TestApp_LoginWithTokenRejected(t *testing.T) {
	ta := newTestApp(t, "")
	ta.auth.tokenErr = fmt.Errorf("sign in: %w", common.ErrTokenExpired)

	old := getSecret
	t.Cleanup(func() { getSecret = old })
	getSecret = func(_ *bufio.Reader, _ string, _ io.Writer) ([]byte, error) {
		return []byte("old"), nil
	}

	err := ta.Login(context.Background(), []string{"token"})
	require.ErrorIs(t, err, common.ErrTokenExpired)
	assert.Contains(t, ta.out.String(), "The token has expired.")
	assert.False(t, ta.isLoggedIn())
}

func TestApp_WhoAmI(t *testing.T) {
	ta := newTestApp(t, "")
	require.ErrorIs(t, ta.WhoAmI(context.Background()), client.ErrNotSignedIn)

	ta.signIn(t)
	require.NoError(t, ta.WhoAmI(context.Background()))
	assert.Contains(t, ta.out.String(), "me@example.com")
	assert.Contains(t, ta.out.String(), "user-1")
}

func TestApp_CheckOnline(t *testing.T) {
	ta := newTestApp(t, "")

	ta.checkOnline(context.Background())
	assert.Equal(t, ModeOnline, ta.getMode())

	ta.auth.pingErr = client.ErrUnavailable
	ta.checkOnline(context.Background())
	assert.Equal(t, ModeOffline, ta.getMode())
}

func TestValidateImport(t *testing.T) {
	src := fakeSources{"d.txt": "##### DATE: 2024-01-02 #####\nT\n##### END #####\n##### DATE: 2024-01-03 #####\n"}

	res, err := validateImport(context.Background(), src, "d.txt")
	require.NoError(t, err)
	assert.Len(t, res.Drafts, 1)
	assert.Equal(t, 1, res.Skipped)

	_, err = validateImport(context.Background(), src, "nope")
	assert.Error(t, err)
}

func TestDescribeErr(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("x: %w", client.ErrNotSignedIn), "not signed in"},
		{fmt.Errorf("x: %w", client.ErrUnauthorized), "rejected your session"},
		{fmt.Errorf("x: %w", client.ErrUnavailable), "unreachable"},
		{context.Canceled, "Cancelled."},
		{errors.New("boom"), "Error: boom"},
	}
	for _, tt := range tests {
		assert.Contains(t, describeErr(tt.err), tt.want)
	}
}
