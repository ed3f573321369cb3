// Package payload defines the JSON documents exchanged with the layout engine.
//
// A [Payload] is the raw input: the variant records fetched for the current
// view plus any view modes the dataset declares. It is accepted either as an
// object or as a bare array of records:
//
//	{"dataset": "pancan", "records": [{"ssm_id": "a", "chr": "17", "pos": 7673802, "dt": "snvindel"}]}
//	[{"ssm_id": "a", "chr": "17", "pos": 7673802, "dt": 1}]
//
// A [Layout] is the render-ready output of one refresh: ordered position
// groups with their type groups, the view mode descriptor, the rejection
// summary and, on the empty path, the "no data" signal.
//
// JSON encoding uses github.com/goccy/go-json.
package payload
