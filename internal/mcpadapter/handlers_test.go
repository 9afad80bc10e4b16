package mcpadapter

import (
	"context"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/anime-recommender/internal/catalog"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/recommend"
)

type stubRecommender struct {
	items   []catalog.Item
	err     error
	lastReq recommend.Request
}

func (s *stubRecommender) Recommend(ctx context.Context, req recommend.Request) ([]catalog.Item, error) {
	s.lastReq = req
	return s.items, s.err
}

func TestRecommend(t *testing.T) {
	table, err := catalog.ReadCSV(strings.NewReader("MAL_ID,Name,Genres\n2167,Clannad,\"Drama, Romance\"\n"))
	if err != nil {
		t.Fatal(err)
	}

	stub := &stubRecommender{items: table.All()}
	handler := NewRecommendHandler(stub)

	result, output, err := handler(context.Background(), nil, RecommendInput{Query: "romance", Genres: []string{"Drama"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("Expected nil CallToolResult, got %+v", result)
	}

	if stub.lastReq.Query != "romance" || len(stub.lastReq.Genres) != 1 || stub.lastReq.Genres[0] != "Drama" {
		t.Errorf("Input not forwarded: %+v", stub.lastReq)
	}

	if output.Count != 1 || len(output.Items) != 1 {
		t.Fatalf("Expected one item, got %+v", output)
	}
	if output.Items[0]["Name"] != "Clannad" || output.Items[0]["MAL_ID"] != int64(2167) {
		t.Errorf("Unexpected record: %v", output.Items[0])
	}
}

func TestRecommend_Error(t *testing.T) {
	stub := &stubRecommender{err: &recommend.Error{Message: "similarity search failed"}}

	_, output, err := Recommend(context.Background(), stub, nil, RecommendInput{Query: "x"})
	if err == nil {
		t.Fatal("Expected error")
	}
	if output.Count != 0 || output.Items != nil {
		t.Errorf("Expected empty output, got %+v", output)
	}
}

func TestRecommend_EmptyResult(t *testing.T) {
	_, output, err := Recommend(context.Background(), &stubRecommender{}, nil, RecommendInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Count != 0 || output.Items == nil {
		t.Errorf("Expected empty non-nil items, got %+v", output)
	}
}

func TestNewServer(t *testing.T) {
	if server := NewServer(&stubRecommender{}, "1.0.0"); server == nil {
		t.Fatal("Expected server")
	}
}

