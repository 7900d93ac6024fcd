package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

func resolveSymbolTool() mcp.Tool {
	return mcp.NewTool("resolve_symbol",
		mcp.WithDescription("Resolves a name to its SymbolId using parent < imports < locals lexical shadowing, as seen from a given scope."),
		mcp.WithString("scope_id", mcp.Required(), mcp.Description("The ScopeId to resolve the name from.")),
		mcp.WithString("name", mcp.Required(), mcp.Description("The identifier to resolve.")),
	)
}

func getCallsByScopeTool() mcp.Tool {
	return mcp.NewTool("get_calls_by_scope",
		mcp.WithDescription("Returns every Phase 2 call resolution whose caller scope matches scope_id."),
		mcp.WithString("scope_id", mcp.Required(), mcp.Description("The caller ScopeId to look up resolved calls for.")),
	)
}

func getIndirectReachabilityTool() mcp.Tool {
	return mcp.NewTool("get_indirect_reachability",
		mcp.WithDescription("Returns every function reached by collection-read or value-passing rather than a direct call edge."),
	)
}

func queryDefinitionsTool() mcp.Tool {
	return mcp.NewTool("query_definitions",
		mcp.WithDescription("Filters project definitions by an expr-lang boolean expression over GetKind()/GetName()/IsExported()/etc. An empty expression returns every definition."),
		mcp.WithString("expression", mcp.Description("An expr-lang boolean expression, e.g. GetKind() == \"function\" && IsExported().")),
		mcp.WithString("file", mcp.Description("Restrict the search to definitions declared in this file. Omit to search the whole project.")),
	)
}

func fetchSourceTool() mcp.Tool {
	return mcp.NewTool("fetch_source",
		mcp.WithDescription("Returns the source text between two byte offsets in a file, for displaying a Definition's or Reference's source snippet."),
		mcp.WithString("file", mcp.Required(), mcp.Description("Absolute path of the file to read.")),
		mcp.WithNumber("start_byte", mcp.Required(), mcp.Description("Inclusive start byte offset.")),
		mcp.WithNumber("end_byte", mcp.Required(), mcp.Description("Exclusive end byte offset.")),
	)
}
