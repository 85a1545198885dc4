// Package clarifai wraps the Clarifai gRPC API for slide uploads.
package clarifai

import (
	"context"
	"fmt"
	"time"

	"github.com/Clarifai/clarifai-go-grpc/proto/clarifai/api"
	statuspb "github.com/Clarifai/clarifai-go-grpc/proto/clarifai/api/status"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/menta2k/slide-uploader/pkg/types"
)

// DefaultEndpoint is the public Clarifai API host.
const DefaultEndpoint = "api.clarifai.com:443"

// Client wraps the Clarifai V2 API stub. It is constructed explicitly and
// passed to the uploader; there is no package-level connection.
type Client struct {
	conn   *grpc.ClientConn
	stub   api.V2Client
	apiKey string
}

// NewClient creates a client for the given endpoint, authorized with the
// app's API key.
func NewClient(endpoint, apiKey string) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(credentials.NewClientTLSFromCert(nil, "")))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	return &Client{conn: conn, stub: api.NewV2Client(conn), apiKey: apiKey}, nil
}

// Close tears down the underlying connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// PostInput uploads one image with its concepts and metadata and reports
// the service's status verdict. Transport failures are returned as errors;
// a reachable service that rejects the input is reported in the result.
func (c *Client) PostInput(ctx context.Context, req *types.UploadRequest) (*types.UploadResult, error) {
	// Add timeout if context doesn't have one
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 120*time.Second)
		defer cancel()
	}

	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Key "+c.apiKey)

	meta, err := structpb.NewStruct(toAnyMap(req.Metadata))
	if err != nil {
		return nil, fmt.Errorf("build metadata struct: %w", err)
	}

	concepts := make([]*api.Concept, 0, len(req.Concepts))
	for _, concept := range req.Concepts {
		concepts = append(concepts, &api.Concept{Id: concept.ID, Value: concept.Value})
	}

	resp, err := c.stub.PostInputs(ctx, &api.PostInputsRequest{
		Inputs: []*api.Input{
			{
				Data: &api.Data{
					Image:    &api.Image{Base64: req.ImageBytes},
					Concepts: concepts,
					Metadata: meta,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("post inputs: %w", err)
	}

	st := resp.GetStatus()
	return &types.UploadResult{
		Success:     st.GetCode() == statuspb.StatusCode_SUCCESS,
		Code:        int32(st.GetCode()),
		Description: st.GetDescription(),
		Details:     st.GetDetails(),
	}, nil
}

func toAnyMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
