// Package shim generates the client-side script injected into every
// rewritten document.
//
// Once running inside the delivered page, the shim:
//   - intercepts anchor clicks, form submissions, window.open and history
//     mutations, posting structured messages to the host frame instead of
//     letting the browser navigate away from the proxy origin
//   - wraps fetch, XMLHttpRequest, setAttribute and the Image/Audio/Worker/
//     WebSocket constructors so runtime-constructed URLs pass through the
//     same resolution rules the server-side rewriter applies
//   - fabricates document.URL/document.domain and a shadow location object
//     so origin-introspecting scripts behave as if running on the target
//   - suppresses automation markers, blocks the page's own service-worker
//     registration and neutralizes window.top === window.self checks
//   - mirrors title changes to the host and strips cookie attributes that
//     would not survive under the proxy's single origin
//
// Generation is pure string assembly: a fixed script body plus one
// JSON-encoded configuration object. The JSON encoder escapes <, > and &,
// so target-controlled values cannot break out of the script element.
//
// The shim deliberately disables cross-origin protections inside the page.
// The host application must render the delivered document in a sandboxed
// frame; the shim cannot enforce that boundary itself.
package shim
