package domain

// Member is a user's presence inside one room.
// Username is unique within the room only; the same name may appear in other rooms.
type Member struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// NewMember creates a Member, defaulting the avatar
func NewMember(username, avatar string) *Member {
	if avatar == "" {
		avatar = DefaultAvatar
	}
	return &Member{
		Username: username,
		Avatar:   avatar,
	}
}

// MemberView is a member annotated with its busy flag, as listed in update_users
type MemberView struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	IsBusy   bool   `json:"isBusy"`
}
