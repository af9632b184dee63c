package model

type RegisterRequest struct {
	InvitationCode string `json:"invitation_code"`
	Handle         string `json:"handle"`
	DisplayName    string `json:"display_name"`
	Timezone       string `json:"timezone"`
}

type RegisterResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

type GetUserRequest struct {
	Handle string `json:"handle"`
}

type GetUserResponse User

type GetMeRequest struct{}

type GetMeResponse User

type DeactivateUserRequest struct{}

type DeactivateUserResponse struct{}

type GenerateInvitationCodeRequest struct{}

type GenerateInvitationCodeResponse struct {
	Code string `json:"code"`
}

type LinkBlueskyAccountRequest struct {
	Handle      string `json:"handle"`
	PdsURL      string `json:"pds_url"`
	AppPassword string `json:"app_password"`
}

type LinkBlueskyAccountResponse struct{}

type UnlinkBlueskyAccountRequest struct{}

type UnlinkBlueskyAccountResponse struct{}

type LinkMastodonAccountRequest struct {
	Handle      string `json:"handle"`
	AccessToken string `json:"access_token"`
}

type LinkMastodonAccountResponse struct{}

type UnlinkMastodonAccountRequest struct{}

type UnlinkMastodonAccountResponse struct{}
