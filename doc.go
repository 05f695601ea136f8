/*
Package hyperwalk is a client for hypermedia APIs: it follows a chain of link
relations from a start URI to a terminal resource and then acts on it.

A traversal is configured on a Builder and run by exactly one terminal action.
Each hop is resolved either from a document embedded in the previous response
or by fetching the linked URI, so embedded resources never cost a request.

# Concept

The Builder is the orchestrator. It owns a Walker, the media-type specific
engine that parses documents and picks the next link, and both share one
traversal configuration: start URI, relation chain, template parameters and
transport. Supported media types are plain JSON (a relation is a property whose
value is the next URI) and HAL (application/hal+json, with _links and
_embedded).

# Terminal actions

  - Get returns the response of the terminal resource. Embedded resources get a
    synthetic 200 response marked with Synthetic.
  - GetResource returns the parsed document. GetResourceInto decodes it into a struct.
  - GetURI returns the terminal address without requesting it.
  - Post, Put, Patch and Delete send a write request to the terminal address.

When a walk fails, the error is a *domain.TraversalError describing the last
resource reached, and that resource's response is returned next to it.

# Usage

	b, err := hyperwalk.New(domain.MediaTypeJSONHAL, "https://api.example.com")
	if err != nil {
		log.Fatal(err)
	}

	resp, err := b.Follow("orders", "next").
		WithRequestOptions(transport.WithHeader("Authorization", "Bearer token")).
		Get(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(resp.StatusCode, resp.Body)

Use Clone to run the same traversal again.
*/
package hyperwalk
