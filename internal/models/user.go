package models

// Profile is a user's public profile as served by the HTTP boundary.
type Profile struct {
	Username  string  `json:"username"`
	Nickname  string  `json:"nickname"`
	Handle    string  `json:"handle"`
	Bio       string  `json:"bio"`
	Avatar              // flattens to avatar_color / avatar_emoji
	Activity  string  `json:"current_activity"`
	LastSeen  float64 `json:"last_seen"`
	PublicKey string  `json:"public_key,omitempty"`
}

// ProfileEdit is the payload for local profile updates.
type ProfileEdit struct {
	Nickname string `json:"nickname"`
	Handle   string `json:"handle"`
	Bio      string `json:"bio"`
	Color    string `json:"color"`
	Emoji    string `json:"emoji"`
}
