package request

type ToggleFavoriteRequest struct {
	BookID string `json:"bookId"`
}
