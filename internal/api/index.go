package api

import "net/http"

const indexPage = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>Exercise Tracker</title>
  </head>
  <body>
    <h1>Exercise Tracker</h1>
    <form action="/api/users" method="post">
      <h2>Create a new user</h2>
      <input name="username" placeholder="username" />
      <input type="submit" value="Submit" />
    </form>
    <form id="exercise-form" method="post">
      <h2>Add an exercise</h2>
      <input name="userId" id="user-id" placeholder="user id" />
      <input name="description" placeholder="description" />
      <input name="duration" placeholder="duration (mins.)" />
      <input name="date" placeholder="date (yyyy-mm-dd)" />
      <input type="submit" value="Submit" />
    </form>
    <p>GET /api/users/:id/logs?[from][&amp;to][&amp;limit]</p>
    <script>
      const form = document.getElementById("exercise-form");
      form.addEventListener("submit", () => {
        form.action = "/api/users/" + document.getElementById("user-id").value + "/exercises";
      });
    </script>
  </body>
</html>
`

// index serves a minimal page with forms for manual poking. Registered on
// "/", so anything else unrouted lands here and gets a 404.
func index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}
