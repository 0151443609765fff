// Package docsearch embeds the docsearch in-memory full-text engine in a Go
// program.
//
// The client owns one engine goroutine. Documents are loaded with Init
// (replace) or Update (upsert), searched with Search and the result cache is
// dropped with ClearCache. Every call is serialized through the engine, so a
// Client is safe for concurrent use.
//
//	client, _ := docsearch.New(ctx)
//	defer client.Close()
//
//	_, _ = client.Init(ctx, []docsearch.Document{
//	    {ID: "1", Title: "Mountain Sunset", Content: "a landscape photo"},
//	})
//	res, _ := client.Search(ctx, "mountain", &docsearch.SearchOptions{
//	    SortBy: docsearch.SortDate,
//	})
//
// # Loading from Redis or Valkey
//
// Documents stored as JSON strings under a key prefix can be loaded with Sync:
//
//	client, _ := docsearch.New(ctx, docsearch.WithValkey("localhost:6379", ""))
//	n, _ := client.Sync(ctx)
package docsearch
