package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todo-app/backend/internal/mocks"
	"github.com/todo-app/backend/internal/model"
	"go.uber.org/mock/gomock"
)

func TestRefreshRotatesSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	clock := &fakeClock{now: testNow}
	codec := newTestCodec(t, clock.Now)
	issuer := NewIssuer(codec, testAuthConfig(), clock.Now)
	refresher := NewRefresher(codec, users, issuer, "refresh_token", nil)

	old := issueFor(t, issuer, 11)
	users.EXPECT().GetUserByID(gomock.Any(), int64(11)).Return(&model.User{ID: 11, IsActive: true}, nil)

	clock.now = testNow.Add(time.Hour)
	r := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	r.AddCookie(&http.Cookie{Name: "refresh_token", Value: old.RefreshToken})
	w := httptest.NewRecorder()

	user, err := refresher.Refresh(context.Background(), r, w)
	require.NoError(t, err)
	assert.Equal(t, int64(11), user.ID)

	cookies := cookiesByName(w.Result().Cookies())
	require.Len(t, cookies, 3)
	assert.NotEqual(t, old.CSRFToken, cookies["csrf_token"].Value)
	assert.NotEqual(t, old.RefreshToken, cookies["refresh_token"].Value)
	assert.Equal(t, cookies["csrf_token"].Value, w.Header().Get("X-CSRF-Token"))
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	clock := &fakeClock{now: testNow}
	codec := newTestCodec(t, clock.Now)
	issuer := NewIssuer(codec, testAuthConfig(), clock.Now)
	refresher := NewRefresher(codec, users, issuer, "refresh_token", nil)

	s := issueFor(t, issuer, 11)
	r := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	r.AddCookie(&http.Cookie{Name: "refresh_token", Value: s.AccessToken})
	w := httptest.NewRecorder()

	_, err := refresher.Refresh(context.Background(), r, w)
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.Empty(t, w.Result().Cookies())
	assert.Empty(t, w.Header().Get("X-CSRF-Token"))
}

func TestRefreshIgnoresAuthorizationHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	clock := &fakeClock{now: testNow}
	codec := newTestCodec(t, clock.Now)
	issuer := NewIssuer(codec, testAuthConfig(), clock.Now)
	refresher := NewRefresher(codec, users, issuer, "refresh_token", nil)

	s := issueFor(t, issuer, 11)
	r := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	r.Header.Set("Authorization", "Bearer "+s.RefreshToken)
	w := httptest.NewRecorder()

	_, err := refresher.Refresh(context.Background(), r, w)
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.Empty(t, w.Result().Cookies())
}

func TestRefreshInactiveUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	clock := &fakeClock{now: testNow}
	codec := newTestCodec(t, clock.Now)
	issuer := NewIssuer(codec, testAuthConfig(), clock.Now)
	refresher := NewRefresher(codec, users, issuer, "refresh_token", nil)

	s := issueFor(t, issuer, 11)
	users.EXPECT().GetUserByID(gomock.Any(), int64(11)).Return(&model.User{ID: 11, IsActive: false}, nil)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	r.AddCookie(&http.Cookie{Name: "refresh_token", Value: s.RefreshToken})
	w := httptest.NewRecorder()

	_, err := refresher.Refresh(context.Background(), r, w)
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.Empty(t, w.Result().Cookies())
}
