package model

// GenerateRequest represents a password generation request.
// Pointer bools allow distinguishing between missing (nil -> default) and explicit false.
type GenerateRequest struct {
	Length        int    `json:"length"`
	Letters       *bool  `json:"letters"`
	Lower         *bool  `json:"lower"`
	Upper         *bool  `json:"upper"`
	RandomReg     *bool  `json:"randomReg"`
	Digits        *bool  `json:"digits"`
	Symbols       *bool  `json:"symbols"`
	LetterCase    string `json:"letterCase,omitempty"`
	CustomCharset string `json:"customCharset"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
}
