package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/fundwit/go-commons/types"
)

// ELASTICSEARCH_URL
var ActiveESClient *elasticsearch.Client

func Bootstrap() {
	client, err := elasticsearch.NewDefaultClient()
	if err != nil {
		panic(err)
	}
	ActiveESClient = client
}

func Index(index string, id types.ID, doc interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: id.String(),
		Body:       bytes.NewReader(buf.Bytes()),
		Refresh:    "true",
	}

	res, err := req.Do(context.Background(), ActiveESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index document %s into %s: %s", id, index, res.Status())
	}
	_, err = io.Copy(ioutil.Discard, res.Body)
	return err
}

func DeleteDocument(index string, id types.ID) error {
	req := esapi.DeleteRequest{Index: index, DocumentID: id.String(), Refresh: "true"}
	res, err := req.Do(context.Background(), ActiveESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// deleting an absent document is not a failure
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete document %s from %s: %s", id, index, res.Status())
	}
	_, err = io.Copy(ioutil.Discard, res.Body)
	return err
}

// Search return the _source of every hit.
func Search(index string, query interface{}) ([]json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := ActiveESClient.Search(
		ActiveESClient.Search.WithContext(context.Background()),
		ActiveESClient.Search.WithIndex(index),
		ActiveESClient.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", index, res.Status())
	}

	var body struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}

	sources := make([]json.RawMessage, 0, len(body.Hits.Hits))
	for _, hit := range body.Hits.Hits {
		sources = append(sources, hit.Source)
	}
	return sources, nil
}
