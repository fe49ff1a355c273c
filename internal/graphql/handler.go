package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"github.com/rpggio/workflow/internal/metrics"
)

// Request is a GraphQL operation as posted by clients.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// Handler serves GraphQL over HTTP.
type Handler struct {
	schema graphql.Schema
	logger *slog.Logger
}

// NewHandler builds the schema over the given services.
func NewHandler(projects ProjectService, tasks TaskService, dashboard DashboardService, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	schema, err := newSchema(&resolver{projects: projects, tasks: tasks, dashboard: dashboard, logger: logger})
	if err != nil {
		return nil, fmt.Errorf("building graphql schema: %w", err)
	}
	return &Handler{schema: schema, logger: logger}, nil
}

// Execute runs one operation.
func (h *Handler) Execute(ctx context.Context, req Request) *graphql.Result {
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	if len(result.Errors) > 0 {
		result.Errors = formatErrors(result.Errors)
		metrics.IncGraphQLOperation("error")
		h.logger.Debug("graphql operation failed", "operation", req.OperationName, "errors", len(result.Errors))
	} else {
		metrics.IncGraphQLOperation("ok")
	}
	return result
}

// ServeHTTP accepts POST with a JSON body and GET with query parameters.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	switch r.Method {
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeRequestError(w, http.StatusBadRequest, "Invalid JSON payload")
			return
		}
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if vars := q.Get("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				writeRequestError(w, http.StatusBadRequest, "Variables must be a JSON object")
				return
			}
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		writeRequestError(w, http.StatusMethodNotAllowed, "GraphQL only supports GET and POST requests")
		return
	}

	if req.Query == "" {
		writeRequestError(w, http.StatusBadRequest, "Must provide query string")
		return
	}

	// GET must stay safe: a link must never be able to run a mutation.
	if r.Method == http.MethodGet {
		if op := operationType(req.Query, req.OperationName); op != "" && op != ast.OperationTypeQuery {
			w.Header().Set("Allow", "POST")
			writeRequestError(w, http.StatusMethodNotAllowed, "Can only perform a query operation from a GET request")
			return
		}
	}

	writeJSON(w, http.StatusOK, h.Execute(r.Context(), req))
}

// operationType returns the kind of operation the request would run, or ""
// when the document does not parse or names no matching operation. Execution
// reports those cases itself.
func operationType(query, operationName string) string {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return ""
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName == "" || (op.Name != nil && op.Name.Value == operationName) {
			return op.Operation
		}
	}
	return ""
}

func writeRequestError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"errors": []gqlerrors.FormattedError{{Message: message, Extensions: map[string]any{"code": CodeBadUserInput}}},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
