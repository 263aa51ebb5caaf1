package validators

// CreateNoteRequest needs a title or a description; the service enforces
// that at least one is non-blank.
type CreateNoteRequest struct {
	Title       string  `json:"title" binding:"max=255"`
	Description string  `json:"description"`
	Done        bool    `json:"done"`
	Color       *string `json:"todoColor,omitempty" binding:"omitempty,max=64"`
}

type UpdateNoteRequest struct {
	Title       string  `json:"title" binding:"max=255"`
	Description string  `json:"description"`
	Done        bool    `json:"done"`
	Color       *string `json:"todoColor,omitempty" binding:"omitempty,max=64"`
	Pinned      *bool   `json:"pinned,omitempty"`
}

type SuggestTitleRequest struct {
	Description string `json:"description" binding:"required,max=4000"`
}

type AddCollaboratorRequest struct {
	UserID uint `json:"userId" binding:"required"`
}
