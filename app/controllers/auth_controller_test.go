package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/travlrgetaways/travlr/app/apperr"
	"github.com/travlrgetaways/travlr/app/controllers"
	"github.com/travlrgetaways/travlr/app/models"
	"github.com/travlrgetaways/travlr/app/services"
	"github.com/travlrgetaways/travlr/pkg/router"
	"github.com/travlrgetaways/travlr/pkg/session"
)

type memUserRepo struct {
	users map[primitive.ObjectID]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[primitive.ObjectID]models.User{}}
}

func (m *memUserRepo) Create(_ context.Context, user *models.User) error {
	if user.IsRegistered {
		for _, existing := range m.users {
			if existing.IsRegistered && existing.Email == user.Email {
				return apperr.ErrDuplicateEmail
			}
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &user, nil
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.IsRegistered && user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *memUserRepo) Save(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperr.ErrNotFound
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(m.users, id)
	return nil
}

func (m *memUserRepo) FindIdleGuests(_ context.Context, before time.Time) ([]models.User, error) {
	var out []models.User
	for _, user := range m.users {
		if !user.IsRegistered && user.CreatedAt.Before(before) {
			out = append(out, user)
		}
	}
	return out, nil
}

type memMigrator struct {
	users *memUserRepo
	carts *memCartRepo
}

func (m *memMigrator) Migrate(ctx context.Context, guestID, newID primitive.ObjectID) (int64, error) {
	moved, err := m.carts.ReassignOwner(ctx, guestID.Hex(), newID.Hex())
	if err != nil {
		return 0, err
	}
	return moved, m.users.Delete(ctx, guestID)
}

func newAuthServer(t *testing.T) (*httptest.Server, *memUserRepo, *memCartRepo) {
	t.Helper()

	users := newMemUserRepo()
	carts := newMemCartRepo()
	svc := services.NewAuthService(users, carts, &memMigrator{users: users, carts: carts})
	ctrl := controllers.NewAuthController(svc)

	r := router.New()
	api := r.Group("/api")
	api.Post("/register", "auth.register", ctrl.Register)
	api.Post("/login", "auth.login", ctrl.Login)
	api.Post("/guest", "auth.guest", ctrl.RegisterGuest)
	api.Get("/checkSession", "auth.session", ctrl.CheckSession)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv, users, carts
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestGuestThenRegisterMigratesCart(t *testing.T) {
	srv, users, carts := newAuthServer(t)

	guestResp := doJSON(t, http.MethodPost, srv.URL+"/api/guest", "", nil)
	require.Equal(t, http.StatusOK, guestResp.StatusCode)
	cookie := sessionCookie(guestResp)
	require.NotNil(t, cookie, "guest creation must set the session cookie")

	guestBody := decodeBody(t, guestResp)
	guestUser, ok := guestBody["guestUser"].(map[string]any)
	require.True(t, ok)
	guestID, _ := guestUser["_id"].(string)
	require.NotEmpty(t, guestID)

	// Guest fills the cart.
	item := models.CartItem{
		ID: primitive.NewObjectID().Hex(), Code: "R1", Name: "Room A",
		Collection: models.CollectionRooms, Rate: 100, Quantity: 1, UserID: guestID,
	}
	require.NoError(t, carts.Insert(context.Background(), &item))

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/register",
		jsonReader(t, map[string]string{
			"fName": "Ada", "lName": "Lovelace",
			"email": "ada@example.com", "password": "correct horse",
		}))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)

	regResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, regResp.StatusCode)

	regBody := decodeBody(t, regResp)
	assert.NotEmpty(t, regBody["token"])
	assert.Contains(t, regBody["message"], "Ada Lovelace")

	registered, err := users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)

	mine, err := carts.FindByOwner(context.Background(), registered.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, mine, 1, "guest cart must follow the new account")

	gid, err := primitive.ObjectIDFromHex(guestID)
	require.NoError(t, err)
	_, err = users.FindByID(context.Background(), gid)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRegisterMissingFields(t *testing.T) {
	srv, _, _ := newAuthServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/register", "", map[string]string{
		"fName": "Ada",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "All fields required", body["message"])
}

func TestRegisterWithoutLastName(t *testing.T) {
	srv, _, _ := newAuthServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/register", "", map[string]string{
		"fName": "Ada", "email": "ada@example.com", "password": "s3cret",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
}

func TestRegisterDuplicateEmailIsTerminal(t *testing.T) {
	srv, _, _ := newAuthServer(t)

	payload := map[string]string{
		"fName": "Ada", "lName": "Lovelace",
		"email": "ada@example.com", "password": "correct horse",
	}

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/register", "", payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/register", "", payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "A user with this email already exists.", body["message"])
	assert.NotContains(t, body, "token", "a 409 must not also hand out a token")
}

func TestLoginStatusShapes(t *testing.T) {
	srv, _, _ := newAuthServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/register", "", map[string]string{
		"fName": "Ada", "lName": "Lovelace",
		"email": "ada@example.com", "password": "correct horse",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	wrong := doJSON(t, http.MethodPost, srv.URL+"/api/login", "", map[string]string{
		"email": "ada@example.com", "password": "nope",
	})
	unknown := doJSON(t, http.MethodPost, srv.URL+"/api/login", "", map[string]string{
		"email": "nobody@example.com", "password": "nope",
	})

	assert.Equal(t, http.StatusUnauthorized, wrong.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknown.StatusCode)
	assert.Equal(t, decodeBody(t, wrong), decodeBody(t, unknown),
		"wrong password and unknown email must be indistinguishable")

	ok := doJSON(t, http.MethodPost, srv.URL+"/api/login", "", map[string]string{
		"email": "ada@example.com", "password": "correct horse",
	})
	assert.Equal(t, http.StatusOK, ok.StatusCode)
	assert.NotNil(t, sessionCookie(ok))
	body := decodeBody(t, ok)
	assert.NotEmpty(t, body["token"])
}

func TestCheckSession(t *testing.T) {
	srv, _, _ := newAuthServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/checkSession", "", nil)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["hasSession"])

	guestResp := doJSON(t, http.MethodPost, srv.URL+"/api/guest", "", nil)
	cookie := sessionCookie(guestResp)
	require.NotNil(t, cookie)
	guestResp.Body.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/checkSession", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	withCookie, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	body = decodeBody(t, withCookie)
	assert.Equal(t, true, body["hasSession"])
	sess, ok := body["session"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, sess["isRegistered"])

	// A tampered cookie reads as no session.
	req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/checkSession", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie.Value + "xx"})
	tampered, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	body = decodeBody(t, tampered)
	assert.Equal(t, false, body["hasSession"])
}
