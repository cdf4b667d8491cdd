package request

// Content is the body of anything the viewer writes: posts, comments, chat messages
type Content struct {
	Content string `json:"content" binding:"required"`
}

type Listing struct {
	Title string  `form:"title" binding:"required"`
	Price float64 `form:"price" binding:"required"`
}
