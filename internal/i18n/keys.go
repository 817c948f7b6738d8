// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthRegisterFailed     = "auth.register_failed"
	KeyAuthSessionExpired     = "auth.session_expired"

	// Profiles
	KeyProfileNotFound     = "profile.not_found"
	KeyProfileCreatePrompt = "profile.create_prompt"
	KeyProfileSaveFailed   = "profile.save_failed"
	KeyProfileLoadFailed   = "profile.load_failed"

	// Posts
	KeyPostDeleteOwnOnly = "post.delete_own_only"
	KeyPostDeleteFailed  = "post.delete_failed"
	KeyPostLoadFailed    = "post.load_failed"
	KeyPostCreateFailed  = "post.create_failed"
	KeyCommentAddFailed  = "comment.add_failed"
	KeyCommentLoadFailed = "comment.load_failed"

	// Social
	KeyFollowFailed = "social.follow_failed"
	KeyLikeFailed   = "social.like_failed"

	// Generic
	KeyGenericFailure = "generic.failure"
)
