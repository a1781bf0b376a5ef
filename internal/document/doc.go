// Package document loads the source HTML file and prepares it for rendering.
//
// Loading collects, in document order, the local stylesheet and script
// references declared in the document head:
//   - href of every <link rel="stylesheet">
//   - src of every <script src>
//
// A reference is local unless it starts with http://, https:// or //.
// Remote references stay in the page and are fetched by the browser during
// normal navigation; local ones are injected into the rendering session by
// the caller, one injection per distinct path.
//
// Prepare produces the HTML that is actually loaded into the browser: local
// head references are removed (the injector owns them) and a <base> element
// anchors every other relative URL to the source file's directory.
package document
