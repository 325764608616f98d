package client

import "moneytrack/model"

// Settings holds the user-togglable app settings.
type Settings struct {
	SyncToCloud bool `json:"syncToCloud"`
}

// Session exposes the authentication state and settings the tracker reads
// before choosing the online or offline path.
type Session struct {
	store *Store
}

func NewSession(store *Store) *Session {
	return &Session{store: store}
}

func (s *Session) SetTokens(access, refresh string) error {
	if err := s.store.Set(KeyAccessToken, access); err != nil {
		return err
	}
	return s.store.Set(KeyRefreshToken, refresh)
}

func (s *Session) AccessToken() string {
	token, err := s.store.Get(KeyAccessToken)
	if err != nil {
		return ""
	}
	return token
}

func (s *Session) SetProfile(user model.User) error {
	return s.store.SetJSON(KeyUserProfile, user)
}

func (s *Session) Profile() (model.User, error) {
	var user model.User
	err := s.store.GetJSON(KeyUserProfile, &user)
	return user, err
}

// IsAuthenticated reports whether a signed-in profile is present.
func (s *Session) IsAuthenticated() bool {
	user, err := s.Profile()
	return err == nil && user.ID != "" && s.AccessToken() != ""
}

func (s *Session) Settings() Settings {
	var settings Settings
	if err := s.store.GetJSON(KeySetting, &settings); err != nil {
		return Settings{}
	}
	return settings
}

func (s *Session) SetSyncToCloud(enabled bool) error {
	settings := s.Settings()
	settings.SyncToCloud = enabled
	return s.store.SetJSON(KeySetting, settings)
}

// Clear drops tokens and profile, e.g. on logout.
func (s *Session) Clear() error {
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUserProfile} {
		if err := s.store.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
