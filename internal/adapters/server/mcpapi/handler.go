// Package mcpapi provides a stateless MCP streamable-HTTP adapter.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hylla/gridcell/internal/adapters/server/common"
	"github.com/hylla/gridcell/internal/domain"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// NewHandler builds one stateless MCP adapter exposing the grid gesture tools.
func NewHandler(cfg Config, grid common.GridService) (*Handler, error) {
	if grid == nil {
		return nil, fmt.Errorf("grid service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerItemTools(mcpSrv, grid)
	registerGestureTools(mcpSrv, grid)
	registerEventTools(mcpSrv, grid)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "gridcell"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// registerItemTools registers the item read tools.
func registerItemTools(srv *mcpserver.MCPServer, grid common.GridService) {
	srv.AddTool(
		mcp.NewTool(
			"gridcell.list_items",
			mcp.WithDescription("List every grid item with its committed rect and rendered box."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			items, err := grid.ListItems(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"items": items,
			})
			if err != nil {
				return nil, fmt.Errorf("encode list_items result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"gridcell.get_item",
			mcp.WithDescription("Return one grid item."),
			mcp.WithString("item_id", mcp.Required(), mcp.Description("Item identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			itemID, err := req.RequireString("item_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			item, err := grid.GetItem(ctx, itemID)
			if err != nil {
				return toolResultFromError(err), nil
			}
			return itemResult(item, "get_item")
		},
	)
}

// registerGestureTools registers the drag, resize and drop tools.
func registerGestureTools(srv *mcpserver.MCPServer, grid common.GridService) {
	phases := mcp.Enum("start", "move", "stop")

	srv.AddTool(
		mcp.NewTool(
			"gridcell.drag_item",
			mcp.WithDescription("Apply one drag step. Deltas are pixels and only used by move."),
			mcp.WithString("item_id", mcp.Required(), mcp.Description("Item identifier")),
			mcp.WithString("phase", mcp.Required(), mcp.Description("Gesture phase"), phases),
			mcp.WithNumber("dx", mcp.Description("Horizontal pixel delta")),
			mcp.WithNumber("dy", mcp.Description("Vertical pixel delta")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			itemID, err := req.RequireString("item_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			phase, err := req.RequireString("phase")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			item, err := grid.Drag(ctx, common.DragRequest{
				ItemID: itemID,
				Phase:  phase,
				DX:     req.GetFloat("dx", 0),
				DY:     req.GetFloat("dy", 0),
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			return itemResult(item, "drag_item")
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"gridcell.resize_item",
			mcp.WithDescription("Apply one resize step with the proposed pixel size of the box."),
			mcp.WithString("item_id", mcp.Required(), mcp.Description("Item identifier")),
			mcp.WithString("phase", mcp.Required(), mcp.Description("Gesture phase"), phases),
			mcp.WithString("handle", mcp.Required(), mcp.Description("Dragged handle"), mcp.Enum(handleNames()...)),
			mcp.WithNumber("width", mcp.Required(), mcp.Description("Proposed pixel width")),
			mcp.WithNumber("height", mcp.Required(), mcp.Description("Proposed pixel height")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			itemID, err := req.RequireString("item_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			phase, err := req.RequireString("phase")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			handle, err := req.RequireString("handle")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			width, err := req.RequireFloat("width")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			height, err := req.RequireFloat("height")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			item, err := grid.Resize(ctx, common.ResizeRequest{
				ItemID: itemID,
				Phase:  phase,
				Handle: handle,
				Width:  width,
				Height: height,
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			return itemResult(item, "resize_item")
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"gridcell.drop_item",
			mcp.WithDescription("Move an item being dragged in from outside the grid. Unknown ids create a placeholder."),
			mcp.WithString("item_id", mcp.Required(), mcp.Description("Item identifier")),
			mcp.WithNumber("left", mcp.Description("Pixel left of the dropping position")),
			mcp.WithNumber("top", mcp.Description("Pixel top of the dropping position")),
			mcp.WithBoolean("clear", mcp.Description("Report no position this update; the drag keeps running from the last one")),
			mcp.WithNumber("w", mcp.Description("Placeholder width in columns")),
			mcp.WithNumber("h", mcp.Description("Placeholder height in rows")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			itemID, err := req.RequireString("item_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			item, err := grid.Drop(ctx, common.DropRequest{
				ItemID: itemID,
				Left:   req.GetFloat("left", 0),
				Top:    req.GetFloat("top", 0),
				Clear:  req.GetBool("clear", false),
				W:      req.GetInt("w", 1),
				H:      req.GetInt("h", 1),
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			return itemResult(item, "drop_item")
		},
	)
}

// registerEventTools registers the journal read tool.
func registerEventTools(srv *mcpserver.MCPServer, grid common.GridService) {
	srv.AddTool(
		mcp.NewTool(
			"gridcell.list_events",
			mcp.WithDescription("List journaled gesture notifications, newest first."),
			mcp.WithString("item_id", mcp.Description("Restrict to one item")),
			mcp.WithNumber("limit", mcp.Description("Maximum rows (default 50)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			events, err := grid.ListEvents(ctx, common.ListEventsRequest{
				ItemID: req.GetString("item_id", ""),
				Limit:  req.GetInt("limit", 0),
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"events": events,
			})
			if err != nil {
				return nil, fmt.Errorf("encode list_events result: %w", err)
			}
			return result, nil
		},
	)
}

// itemResult encodes one item tool result.
func itemResult(item common.Item, tool string) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(item)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", tool, err)
	}
	return result, nil
}

// handleNames lists the resize handle tokens.
func handleNames() []string {
	handles := domain.Handles()
	out := make([]string, 0, len(handles))
	for _, h := range handles {
		out = append(out, string(h))
	}
	return out
}

// toolResultFromError maps service errors into MCP-visible tool errors.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case errors.Is(err, common.ErrInvalidRequest):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	case errors.Is(err, common.ErrNotFound):
		return mcp.NewToolResultError("not_found: " + err.Error())
	case errors.Is(err, common.ErrGestureConflict):
		return mcp.NewToolResultError("gesture_conflict: " + err.Error())
	case errors.Is(err, common.ErrStaticItem):
		return mcp.NewToolResultError("static_item: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}
