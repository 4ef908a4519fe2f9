package client

import (
	"context"

	"github.com/a-h/jsonapi"
	"github.com/a-h/shopscout/models"
)

func New(baseURL, apiKey string) Client {
	return Client{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type Client struct {
	baseURL string
	apiKey  string
}

func (c Client) ResearchPost(ctx context.Context, req models.ResearchPostRequest) (resp models.ResearchPostResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("research").String()
	if err != nil {
		return resp, err
	}
	return jsonapi.Post[models.ResearchPostRequest, models.ResearchPostResponse](ctx, url, req, jsonapi.WithRequestHeader("Authorization", c.apiKey))
}
