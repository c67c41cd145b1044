package persistence

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"
	"github.com/spaghettifunk/geomstudio/engine/resources"
)

type User struct {
	ID                 string `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	UnlockedAnimations []int  `json:"unlockedAnimations"`
}

// UnmarshalJSON accepts the Mongo style "_id" as well as "id".
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var raw struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = User(raw.plain)
	if u.ID == "" {
		u.ID = raw.MongoID
	}
	return nil
}

// Animations maps the unlocked IDs to styles. Unknown IDs are dropped.
func (u User) Animations() []resources.AnimationStyle {
	return animationStyles(u.UnlockedAnimations)
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Scene struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Config      map[string]any `json:"config"`
	IsPublic    bool           `json:"isPublic"`
	UserID      string         `json:"userId,omitempty"`
	Views       int            `json:"views,omitempty"`
	Likes       int            `json:"likes,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// UnmarshalJSON accepts the Mongo style "_id" as well as "id".
func (s *Scene) UnmarshalJSON(data []byte) error {
	type plain Scene
	var raw struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Scene(raw.plain)
	if s.ID == "" {
		s.ID = raw.MongoID
	}
	return nil
}

// SceneConfig decodes the stored config, migrating legacy documents.
func (s Scene) SceneConfig() (resources.SceneConfig, error) {
	return resources.DecodeSceneConfigMap(s.Config)
}

// SceneInput is the body of a save or update.
type SceneInput struct {
	Name        string
	Description string
	Config      resources.SceneConfig
	IsPublic    bool
}

type sceneBody struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Config      map[string]any `json:"config"`
	IsPublic    bool           `json:"isPublic"`
}

type SaveResult struct {
	Scene              Scene `json:"scene"`
	UnlockedAnimations []int `json:"unlockedAnimations"`
}

// NewlyUnlocked maps the IDs unlocked by this save to styles.
func (r SaveResult) NewlyUnlocked() []resources.AnimationStyle {
	return animationStyles(r.UnlockedAnimations)
}

// ListFilter narrows ListScenes. Empty fields are not sent.
type ListFilter struct {
	UserID   string
	IsPublic *bool
}

func animationStyles(ids []int) []resources.AnimationStyle {
	return lo.FilterMap(ids, func(id int, _ int) (resources.AnimationStyle, bool) {
		return resources.AnimationStyleByID(id)
	})
}
