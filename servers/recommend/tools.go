package recommend

import (
	"context"
	"encoding/json"

	"github.com/bridgekit-ai/toolbridge/pkg/llmutils"
	"github.com/bridgekit-ai/toolbridge/tools"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
)

const defaultTopK = 5

// AddItemRequest stores or updates one item.
type AddItemRequest struct {
	ItemID      string   `json:"item_id" jsonschema:"required,description=Unique item ID."`
	Title       string   `json:"title" jsonschema:"required,description=Item title."`
	Description string   `json:"description" jsonschema:"required,description=Item description."`
	Category    string   `json:"category,omitempty" jsonschema:"description=Item category."`
	Tags        []string `json:"tags,omitempty" jsonschema:"description=Item tags."`
}

// AddItemResponse reports what happened.
type AddItemResponse struct {
	Status string `json:"status"`
	ItemID string `json:"item_id"`
	Title  string `json:"title"`
}

// AddItemTool adds an item to the catalog and embeds it.
type AddItemTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*AddItemTool)(nil)

func (t *AddItemTool) Name() string { return "add_item" }

func (t *AddItemTool) Description() string {
	return "Add or update a catalog item and embed it for similarity search."
}

func (t *AddItemTool) Run(ctx context.Context, req *AddItemRequest) (*AddItemResponse, error) {
	if req.ItemID == "" || req.Title == "" {
		return nil, errors.New("item_id and title are required")
	}
	existed := t.svc.upsert(&Item{
		ID:          req.ItemID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
	})
	status := "added"
	if existed {
		status = "updated"
	}
	logger.KV(xlog.DEBUG, "status", status, "item", req.ItemID)
	return &AddItemResponse{
		Status: status,
		ItemID: req.ItemID,
		Title:  req.Title,
	}, nil
}

func (t *AddItemTool) Call(ctx context.Context, input string) (string, error) {
	var req AddItemRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(out), nil
}

func (t *AddItemTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *AddItemTool) RunMCP(req AddItemRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}

// RecommendRequest asks for items similar to a stored one.
type RecommendRequest struct {
	ItemID string `json:"item_id" jsonschema:"required,description=Base item ID."`
	TopK   int    `json:"top_k,omitempty" jsonschema:"description=Number of similar items. Defaults to 5."`
}

// Recommendation is one ranked neighbor.
type Recommendation struct {
	ItemID     string  `json:"item_id"`
	Title      string  `json:"title"`
	Category   string  `json:"category,omitempty"`
	Similarity float64 `json:"similarity"`
}

// RecommendResponse carries the base item and its neighbors.
type RecommendResponse struct {
	BaseItem        Recommendation   `json:"base_item"`
	Recommendations []Recommendation `json:"recommendations"`
}

// RecommendTool finds the nearest neighbors of a stored item.
type RecommendTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*RecommendTool)(nil)

func (t *RecommendTool) Name() string { return "recommend" }

func (t *RecommendTool) Description() string {
	return "Recommend items similar to a stored item."
}

func (t *RecommendTool) Run(ctx context.Context, req *RecommendRequest) (*RecommendResponse, error) {
	base, ok := t.svc.get(req.ItemID)
	if !ok {
		return nil, errItemNotFound(req.ItemID)
	}
	topK := req.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	resp := &RecommendResponse{
		BaseItem: Recommendation{ItemID: base.ID, Title: base.Title},
	}
	for _, sc := range t.svc.similarTo(base.vector, "", base.ID) {
		if len(resp.Recommendations) >= topK {
			break
		}
		resp.Recommendations = append(resp.Recommendations, Recommendation{
			ItemID:     sc.item.ID,
			Title:      sc.item.Title,
			Category:   sc.item.Category,
			Similarity: roundSimilarity(sc.similarity),
		})
	}
	return resp, nil
}

func (t *RecommendTool) Call(ctx context.Context, input string) (string, error) {
	var req RecommendRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(out), nil
}

func (t *RecommendTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *RecommendTool) RunMCP(req RecommendRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}

// SearchRequest searches the catalog by free text.
type SearchRequest struct {
	Query    string `json:"query" jsonschema:"required,description=Free text query."`
	TopK     int    `json:"top_k,omitempty" jsonschema:"description=Number of results. Defaults to 5."`
	Category string `json:"category,omitempty" jsonschema:"description=Restrict to one category."`
}

// SearchHit is one ranked result.
type SearchHit struct {
	ItemID      string  `json:"item_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category,omitempty"`
	Similarity  float64 `json:"similarity"`
}

// SearchResponse carries the ranked results.
type SearchResponse struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
	Count   int         `json:"count"`
}

// SearchTool searches the catalog by text similarity.
type SearchTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*SearchTool)(nil)

func (t *SearchTool) Name() string { return "search" }

func (t *SearchTool) Description() string {
	return "Search catalog items by text similarity, optionally within a category."
}

func (t *SearchTool) Run(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if req.Query == "" {
		return nil, errors.New("invalid request: empty query")
	}
	topK := req.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	vector := t.svc.embedder.Embed(req.Query)
	resp := &SearchResponse{Query: req.Query}
	for _, sc := range t.svc.similarTo(vector, req.Category, "") {
		if len(resp.Results) >= topK {
			break
		}
		resp.Results = append(resp.Results, SearchHit{
			ItemID:      sc.item.ID,
			Title:       sc.item.Title,
			Description: sc.item.Description,
			Category:    sc.item.Category,
			Similarity:  roundSimilarity(sc.similarity),
		})
	}
	resp.Count = len(resp.Results)
	return resp, nil
}

func (t *SearchTool) Call(ctx context.Context, input string) (string, error) {
	var req SearchRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(out), nil
}

func (t *SearchTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *SearchTool) RunMCP(req SearchRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}

// ListItemsRequest pages through the catalog.
type ListItemsRequest struct {
	Limit    int    `json:"limit,omitempty" jsonschema:"description=Number of items. Defaults to 20."`
	Category string `json:"category,omitempty" jsonschema:"description=Restrict to one category."`
}

// ListItemsResponse carries the catalog slice.
type ListItemsResponse struct {
	Items []Item `json:"items"`
	Count int    `json:"count"`
	Total int    `json:"total"`
}

// ListItemsTool lists stored items in insertion order.
type ListItemsTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*ListItemsTool)(nil)

func (t *ListItemsTool) Name() string { return "list_items" }

func (t *ListItemsTool) Description() string {
	return "List stored catalog items."
}

func (t *ListItemsTool) Run(ctx context.Context, req *ListItemsRequest) (*ListItemsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	items, total := t.svc.snapshot(req.Category, limit)
	resp := &ListItemsResponse{
		Count: len(items),
		Total: total,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, *item)
	}
	return resp, nil
}

func (t *ListItemsTool) Call(ctx context.Context, input string) (string, error) {
	var req ListItemsRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(out), nil
}

func (t *ListItemsTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *ListItemsTool) RunMCP(req ListItemsRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}

// DeleteItemRequest removes one item.
type DeleteItemRequest struct {
	ItemID string `json:"item_id" jsonschema:"required,description=Item ID to delete."`
}

// DeleteItemResponse reports the deletion.
type DeleteItemResponse struct {
	Status string `json:"status"`
	ItemID string `json:"item_id"`
}

// DeleteItemTool removes an item from the catalog.
type DeleteItemTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*DeleteItemTool)(nil)

func (t *DeleteItemTool) Name() string { return "delete_item" }

func (t *DeleteItemTool) Description() string {
	return "Delete a catalog item."
}

func (t *DeleteItemTool) Run(ctx context.Context, req *DeleteItemRequest) (*DeleteItemResponse, error) {
	if !t.svc.delete(req.ItemID) {
		return nil, errItemNotFound(req.ItemID)
	}
	return &DeleteItemResponse{Status: "deleted", ItemID: req.ItemID}, nil
}

func (t *DeleteItemTool) Call(ctx context.Context, input string) (string, error) {
	var req DeleteItemRequest
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithMessage(err, "failed to unmarshal input")
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(out), nil
}

func (t *DeleteItemTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *DeleteItemTool) RunMCP(req DeleteItemRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}

// StatsRequest has no parameters.
type StatsRequest struct{}

// StatsResponse summarizes the catalog.
type StatsResponse struct {
	TotalItems int            `json:"total_items"`
	Categories map[string]int `json:"categories"`
}

// StatsTool reports catalog statistics.
type StatsTool struct {
	svc *Service
}

var _ tools.IMCPTool = (*StatsTool)(nil)

func (t *StatsTool) Name() string { return "get_stats" }

func (t *StatsTool) Description() string {
	return "Get catalog statistics: totals and per-category counts."
}

func (t *StatsTool) Run(ctx context.Context, _ *StatsRequest) (*StatsResponse, error) {
	_, total := t.svc.snapshot("", 0)
	return &StatsResponse{
		TotalItems: total,
		Categories: t.svc.categoryCounts(),
	}, nil
}

func (t *StatsTool) Call(ctx context.Context, input string) (string, error) {
	out, err := t.Run(ctx, &StatsRequest{})
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(out), nil
}

func (t *StatsTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.Name(), t.Description(), t.RunMCP)
}

func (t *StatsTool) RunMCP(req StatsRequest) (*mcp.ToolResponse, error) {
	out, err := t.Run(context.Background(), &req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(llmutils.ToJSON(out))), nil
}
