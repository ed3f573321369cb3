// Package pkg provides the core libraries of varlayout, a layout engine for
// variant tracks in genome and protein views.
//
// # Overview
//
// A payload of variant records goes through three stages to become a track
// that a renderer can draw without further computation:
//
//	Payload (JSON file, HTTP request or MongoDB)
//	         ↓
//	    [track/pretreat] (filter, map to view x, transcript coordinates)
//	         ↓
//	    [track/position] (exact, amino-acid or pixel-bin position groups)
//	         ↓
//	    [track/disc] (type groups inside each position group)
//	         ↓
//	    layout.json / HTTP response / terminal inspector
//
// [pipeline] drives the stages across refreshes: it reflows the previous
// generation on a pan over a gene model, rebuilds on zoom or new data, and
// reports an empty track when nothing is in view.
//
// # Packages
//
//   - [variant]: records, data types and gene models
//   - [coord]: genomic to view and transcript coordinate mapping
//   - [track]: groups, UI-state side table, rejections, fingerprints
//   - [payload]: payload and layout documents (JSON)
//   - [source/mongo]: MongoDB payload source
//   - [errors]: coded errors shared by the CLI and the HTTP API
//   - [observability]: refresh, source and HTTP hooks
//
// # Quick Start
//
//	p, err := payload.ReadFile("tp53.json")
//	if err != nil {
//	    return err
//	}
//	orch, err := pipeline.New(pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	res, err := orch.Refresh(ctx, pipeline.Request{
//	    Payload: p,
//	    View:    pipeline.View{Width: 800, Mapper: coord.Single("17", 7661779, 7687538, 800)},
//	    Change:  pipeline.ChangeRequery,
//	})
package pkg
