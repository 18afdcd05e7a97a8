package category

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
