package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/hyperwalk"
	"github.com/aretw0/hyperwalk/internal/logging"
	"github.com/aretw0/hyperwalk/internal/walker"
	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TraverseArgs are the arguments of the traverse tool.
type TraverseArgs struct {
	StartURI   string `json:"start_uri"`
	Follow     string `json:"follow,omitempty"`
	MediaType  string `json:"media_type,omitempty"`
	Action     string `json:"action,omitempty"`
	Parameters string `json:"template_parameters,omitempty"`
}

// TraverseResult is the structured output of the traverse tool.
type TraverseResult struct {
	URI        string `json:"uri,omitempty" jsonschema_description:"Address of the terminal resource"`
	StatusCode int    `json:"status_code,omitempty" jsonschema_description:"HTTP status of the terminal response"`
	Synthetic  bool   `json:"synthetic,omitempty" jsonschema_description:"True when the resource was embedded and no request was made"`
	Resource   any    `json:"resource,omitempty" jsonschema_description:"Parsed terminal resource"`
	Body       string `json:"body,omitempty" jsonschema_description:"Raw terminal response body"`
}

// DescribeResult lists the relations offered by a resource.
type DescribeResult struct {
	URI       string            `json:"uri"`
	Relations []walker.Relation `json:"relations"`
}

// Server exposes traversals as MCP tools.
type Server struct {
	opts      []hyperwalk.Option
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server. opts are applied to every Builder the
// tools create.
func NewServer(logger *slog.Logger, opts ...hyperwalk.Option) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		opts:      opts,
		logger:    logger,
		mcpServer: server.NewMCPServer("hyperwalk-mcp", hyperwalk.Version, server.WithToolCapabilities(true)),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	traverseTool := mcp.NewTool("traverse",
		mcp.WithDescription("Follow a chain of link relations from a start URI and act on the resource that is reached."),
		mcp.WithString("start_uri", mcp.Required(), mcp.Description("Absolute URI of the entry resource")),
		mcp.WithString("follow", mcp.Description("Comma-separated link relations to follow, e.g. 'orders,next' or 'orders,order[1]'")),
		mcp.WithString("media_type", mcp.Description("Media type of the API: 'hal' (default) or 'json'")),
		mcp.WithString("action", mcp.Enum("resource", "get", "uri"), mcp.Description("What to do at the terminal resource (default 'resource')")),
		mcp.WithString("template_parameters", mcp.Description("JSON object with URI template parameters")),
		mcp.WithOutputSchema[TraverseResult](),
	)
	s.mcpServer.AddTool(traverseTool, mcp.NewStructuredToolHandler(s.handleTraverse))

	describeTool := mcp.NewTool("describe",
		mcp.WithDescription("List the link relations offered by the resource reached after following the given relations."),
		mcp.WithString("start_uri", mcp.Required(), mcp.Description("Absolute URI of the entry resource")),
		mcp.WithString("follow", mcp.Description("Comma-separated link relations to follow first")),
		mcp.WithString("media_type", mcp.Description("Media type of the API: 'hal' (default) or 'json'")),
		mcp.WithString("template_parameters", mcp.Description("JSON object with URI template parameters")),
		mcp.WithOutputSchema[DescribeResult](),
	)
	s.mcpServer.AddTool(describeTool, mcp.NewStructuredToolHandler(s.handleDescribe))
}

func (s *Server) builder(args TraverseArgs) (*hyperwalk.Builder, error) {
	mediaType := args.MediaType
	if mediaType == "" {
		mediaType = domain.MediaTypeJSONHAL
	}
	opts := append([]hyperwalk.Option{hyperwalk.WithLogger(s.logger)}, s.opts...)
	b, err := hyperwalk.New(mediaType, args.StartURI, opts...)
	if err != nil {
		return nil, err
	}

	b.Follow(splitRelations(args.Follow)...)
	if args.Parameters != "" {
		params := map[string]any{}
		if err := json.Unmarshal([]byte(args.Parameters), &params); err != nil {
			return nil, fmt.Errorf("template_parameters must be a JSON object: %w", err)
		}
		b.WithTemplateParameters(params)
	}
	return b, nil
}

func (s *Server) handleTraverse(ctx context.Context, _ mcp.CallToolRequest, args TraverseArgs) (TraverseResult, error) {
	b, err := s.builder(args)
	if err != nil {
		return TraverseResult{}, err
	}
	s.logger.Debug("mcp traverse", "start_uri", args.StartURI, "follow", b.Links(), "action", args.Action)

	switch args.Action {
	case "", "resource":
		res, err := b.GetResource(ctx)
		if err != nil {
			return TraverseResult{Resource: res}, fmt.Errorf("traverse failed: %w", err)
		}
		return TraverseResult{Resource: res}, nil
	case "get":
		resp, err := b.Get(ctx)
		if err != nil {
			return TraverseResult{}, fmt.Errorf("traverse failed: %w", err)
		}
		return TraverseResult{StatusCode: resp.StatusCode, Synthetic: resp.Synthetic, Body: resp.Body}, nil
	case "uri":
		uri, err := b.GetURI(ctx)
		if err != nil {
			return TraverseResult{}, fmt.Errorf("traverse failed: %w", err)
		}
		return TraverseResult{URI: uri}, nil
	default:
		return TraverseResult{}, fmt.Errorf("unknown action %q", args.Action)
	}
}

func (s *Server) handleDescribe(ctx context.Context, _ mcp.CallToolRequest, args TraverseArgs) (DescribeResult, error) {
	b, err := s.builder(args)
	if err != nil {
		return DescribeResult{}, err
	}
	res, err := b.GetResource(ctx)
	if err != nil {
		return DescribeResult{}, fmt.Errorf("describe failed: %w", err)
	}
	doc, ok := res.(map[string]any)
	if !ok {
		return DescribeResult{}, fmt.Errorf("resource is a %T, not a JSON object", res)
	}
	rels, err := walker.Relations(b.MediaType(), doc)
	if err != nil {
		return DescribeResult{}, err
	}

	uri, _ := walker.SelfHref(doc)
	return DescribeResult{URI: uri, Relations: rels}, nil
}

func splitRelations(s string) []string {
	var rels []string
	for _, rel := range strings.Split(s, ",") {
		if rel = strings.TrimSpace(rel); rel != "" {
			rels = append(rels, rel)
		}
	}
	return rels
}
