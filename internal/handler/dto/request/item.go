package request

type RegisterItemRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Author      string `json:"author" binding:"required,max=255"`
	Genre       string `json:"genre" binding:"max=100"`
	TotalCopies int    `json:"total_copies" binding:"gte=0"`
}

type ListItemsQuery struct {
	Genre  string `form:"genre"`
	Author string `form:"author"`
	Status string `form:"status"`
	Limit  int    `form:"limit" binding:"gte=0"`
	After  string `form:"after"`
}
