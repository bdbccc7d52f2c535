// Package api serves the search client over HTTP as JSON.
//
// # Routes
//
//	GET  /healthz               liveness and dataset readiness
//	GET  /projects              project search, query values in Extended JSON
//	POST /projects/search       project search, descriptor in the body
//	GET  /projects/hot          best daily trends
//	GET  /projects/{slug}       one project
//	GET  /tags                  tag search
//	GET  /tags/popular          most used tags with their top projects
//
// The /projects and /tags query parameters criteria, sort and projection
// hold MongoDB Extended JSON documents; skip and limit are integers:
//
//	/projects?criteria={"tags":{"$all":["react"]}}&sort={"stars":-1}&limit=10
//
// # Errors
//
// Errors are returned as {"error": {"code": "...", "message": "..."}} with
// a status derived from the error code:
//   - INVALID_QUERY, INVALID_INPUT, INVALID_SLUG: 400
//   - NOT_FOUND: 404
//   - DATA_UNAVAILABLE: 503
//   - anything else: 500
package api
