package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/petal-labs/salescast/forecast"
	"github.com/petal-labs/salescast/mcp"
	"github.com/petal-labs/salescast/tool"
)

type apiErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type apiErrorResponse struct {
	Error apiErrorDetail `json:"error"`
}

type callToolRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// handleListTools serves the discovery listing.
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tools": s.dispatcher.Registry().MCPTools(),
	})
}

// handleCallTool serves the direct call-by-name endpoint. Handler and
// argument faults come back as isError results; only an unknown tool is an
// HTTP-level failure.
func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	var req callToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, tool.ErrorCodeInvalidArguments, fmt.Sprintf("decode request: %v", err), nil)
		return
	}

	result, toolErr := s.dispatcher.Dispatch(r.Context(), req.Name, req.Arguments)
	if toolErr != nil {
		if toolErr.Code == tool.ErrorCodeToolNotFound {
			writeError(w, http.StatusNotFound, toolErr.Code, toolErr.Message, toolErr.Params)
			return
		}
		writeJSON(w, http.StatusOK, mcp.ToolsCallResult{
			Content: []mcp.ContentBlock{mcp.TextBlock(toolErr.Error())},
			IsError: true,
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleMCP serves the JSON-RPC endpoint. Every request yields exactly one
// response envelope echoing the caller's id.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	var req mcp.Message
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, tool.ErrorCodeInvalidArguments, fmt.Sprintf("decode request: %v", err), nil)
		return
	}

	switch req.Method {
	case "tools/list":
		s.writeRPCResult(w, req.ID, map[string]any{
			"tools": s.dispatcher.Registry().MCPTools(),
		})
	case "tools/call":
		var params mcp.ToolsCallParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				s.writeRPCError(w, req.ID, mcp.CodeInvalidParams, fmt.Sprintf("decode params: %v", err))
				return
			}
		}
		result, toolErr := s.dispatcher.Dispatch(r.Context(), params.Name, params.Arguments)
		if toolErr != nil {
			s.writeRPCError(w, req.ID, toolErr.RPCCode(), toolErr.Message)
			return
		}
		s.writeRPCResult(w, req.ID, result)
	default:
		s.writeRPCError(w, req.ID, mcp.CodeMethodNotFound, fmt.Sprintf("Method %q not found", req.Method))
	}
}

// REST shortcuts return the bare result payload, bypassing envelope framing.
// The payload bytes match the text block produced by the envelope paths.

func (s *Server) handlePoliticalEvents(w http.ResponseWriter, r *http.Request) {
	arguments := map[string]any{"year": r.PathValue("year")}
	if impact := r.URL.Query().Get("impact_level"); impact != "" {
		arguments["impact_level"] = impact
	}
	s.serveShortcut(w, r, forecast.OpPoliticalEvents, arguments)
}

func (s *Server) handleGDP(w http.ResponseWriter, r *http.Request) {
	arguments := map[string]any{"year": r.PathValue("year")}
	if quarter := r.URL.Query().Get("quarter"); quarter != "" {
		arguments["quarter"] = quarter
	}
	s.serveShortcut(w, r, forecast.OpGDPData, arguments)
}

func (s *Server) handleForecastFactors(w http.ResponseWriter, r *http.Request) {
	s.serveShortcut(w, r, forecast.OpForecastFactors, map[string]any{"year": r.PathValue("year")})
}

func (s *Server) serveShortcut(w http.ResponseWriter, r *http.Request, operation string, arguments map[string]any) {
	result, toolErr := s.dispatcher.Dispatch(r.Context(), operation, arguments)
	if toolErr != nil {
		status := http.StatusInternalServerError
		switch toolErr.Code {
		case tool.ErrorCodeToolNotFound:
			status = http.StatusNotFound
		case tool.ErrorCodeInvalidArguments:
			status = http.StatusBadRequest
		}
		writeError(w, status, toolErr.Code, toolErr.Message, toolErr.Params)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.TextContent()))
}

func (s *Server) writeRPCResult(w http.ResponseWriter, id mcp.RequestID, result any) {
	raw, err := json.Marshal(result)
	if err != nil {
		s.writeRPCError(w, id, mcp.CodeHandlerFailure, fmt.Sprintf("encode result: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, mcp.Message{
		JSONRPC: "2.0",
		ID:      id,
		Result:  raw,
	})
}

func (s *Server) writeRPCError(w http.ResponseWriter, id mcp.RequestID, code int, message string) {
	writeJSON(w, http.StatusOK, mcp.Message{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &mcp.RPCError{Code: code, Message: message},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, apiErrorResponse{Error: apiErrorDetail{
		Code:    code,
		Message: message,
		Details: details,
	}})
}
