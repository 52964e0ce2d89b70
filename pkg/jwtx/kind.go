package jwtx

// Kind identifies what a token may be used for. Every kind is signed with
// its own secret, so a token of one kind can never be forged from the
// secret of another.
type Kind string

const (
	KindAccess            Kind = "access"
	KindRefresh           Kind = "refresh"
	KindEmailVerification Kind = "email-verification"
	KindPasswordReset     Kind = "password-reset"
)

// Kinds lists every kind the issuer knows how to sign.
var Kinds = []Kind{KindAccess, KindRefresh, KindEmailVerification, KindPasswordReset}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindAccess, KindRefresh, KindEmailVerification, KindPasswordReset:
		return true
	default:
		return false
	}
}

// SingleUse reports whether tokens of this kind may be redeemed at most once.
func (k Kind) SingleUse() bool {
	return k == KindEmailVerification || k == KindPasswordReset
}

func (k Kind) String() string { return string(k) }
