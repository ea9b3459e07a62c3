package catalog

import (
	"github.com/skillforge/learn-engine/internal/models"
)

// builtinEntries returns the curated fallback challenges, ordered easy to
// hard within each track
func builtinEntries() map[Track][]Entry {
	return map[Track][]Entry{
		TrackJavaScript: {
			{
				Title:         "Build a Personal Task Tracker",
				Description:   "Create a browser-based task tracker that lets you add, complete and delete tasks, persisting everything to localStorage so your list survives a reload.",
				Difficulty:    models.DifficultyEasy,
				Skills:        []string{"DOM manipulation", "events", "localStorage"},
				Steps: []string{
					"Sketch the layout: an input, an add button and a task list",
					"Wire up the add button to append tasks to the list",
					"Add complete and delete controls to each task",
					"Persist the task array to localStorage on every change",
					"Restore saved tasks when the page loads",
				},
				EstimatedTime: "3-4 hours",
				ProjectType:   "web app",
				Language:      "javascript",
			},
			{
				Title:         "Weather Dashboard with Live API Data",
				Description:   "Build a weather dashboard that fetches current conditions and a five day forecast from a public API, with graceful loading and error states and a recently-searched cities list.",
				Difficulty:    models.DifficultyMedium,
				Skills:        []string{"fetch API", "async/await", "error handling", "JSON"},
				Steps: []string{
					"Register for a free weather API key and read the docs",
					"Build the search form and wire it to the API call",
					"Render current conditions and the forecast cards",
					"Handle loading spinners and failed requests",
					"Store recent searches and render them as quick links",
					"Add unit switching between metric and imperial",
				},
				EstimatedTime: "6-8 hours",
				ProjectType:   "web app",
				Language:      "javascript",
			},
			{
				Title:         "Real-Time Collaborative Whiteboard",
				Description:   "Implement a shared whiteboard where multiple users draw together in real time over WebSockets, including presence indicators, an undo stack and export to PNG.",
				Difficulty:    models.DifficultyHard,
				Skills:        []string{"WebSockets", "canvas", "state sync", "Node.js"},
				Steps: []string{
					"Set up a Node.js WebSocket server that relays draw events",
					"Implement canvas drawing with pointer events",
					"Broadcast strokes and replay them for late joiners",
					"Show who is connected and where their cursor is",
					"Implement a per-user undo stack",
					"Add PNG export of the current board",
				},
				EstimatedTime: "12-16 hours",
				ProjectType:   "full-stack app",
				Language:      "javascript",
			},
		},
		TrackFlutter: {
			{
				Title:         "Daily Habit Streak Counter",
				Description:   "Build a Flutter app that tracks daily habits with streak counters, using local storage so streaks persist between sessions and a simple settings screen.",
				Difficulty:    models.DifficultyEasy,
				Skills:        []string{"widgets", "setState", "shared_preferences"},
				Steps: []string{
					"Create the habit list screen with add and delete",
					"Implement the daily check-in button per habit",
					"Compute and display the current streak",
					"Persist habits and check-ins with shared_preferences",
					"Add a settings screen for reminders",
				},
				EstimatedTime: "4-5 hours",
				ProjectType:   "mobile app",
				Language:      "dart",
			},
			{
				Title:         "Recipe Browser with Offline Cache",
				Description:   "Create a recipe browsing app backed by a public recipe API with search, detail pages, favorites, and an offline cache so favorites open without a connection.",
				Difficulty:    models.DifficultyMedium,
				Skills:        []string{"http", "FutureBuilder", "state management", "sqflite"},
				Steps: []string{
					"Model the recipe API responses and write the client",
					"Build the search screen with debounced queries",
					"Build the recipe detail page with hero images",
					"Implement favorites stored in sqflite",
					"Serve cached favorites when the device is offline",
					"Polish with pull-to-refresh and error retries",
				},
				EstimatedTime: "8-10 hours",
				ProjectType:   "mobile app",
				Language:      "dart",
			},
			{
				Title:         "Expense Tracker with Charts and Sync",
				Description:   "Build a multi-account expense tracker with category breakdown charts, monthly budgets, and background sync against a remote API, handling conflicts between devices.",
				Difficulty:    models.DifficultyHard,
				Skills:        []string{"provider/bloc", "REST sync", "charts", "local database"},
				Steps: []string{
					"Design the local schema for accounts, categories and entries",
					"Build entry capture with category and account pickers",
					"Render monthly breakdown charts per category",
					"Implement budget limits with progress indicators",
					"Add background sync with last-write-wins conflict handling",
					"Write widget tests for the capture flow",
				},
				EstimatedTime: "14-18 hours",
				ProjectType:   "mobile app",
				Language:      "dart",
			},
		},
		TrackSystems: {
			{
				Title:         "Design a URL Shortener",
				Description:   "Design and prototype a URL shortener: short code generation, redirect lookup, and a capacity estimate for one hundred million links with read-heavy traffic.",
				Difficulty:    models.DifficultyEasy,
				Skills:        []string{"API design", "hashing", "capacity estimation"},
				Steps: []string{
					"Write the API contract for shorten and redirect",
					"Choose and justify a short code generation scheme",
					"Estimate storage and traffic for the target scale",
					"Prototype the redirect path with an in-memory store",
					"Document the failure modes of your design",
				},
				EstimatedTime: "4-6 hours",
				ProjectType:   "design + prototype",
				Language:      "any",
			},
			{
				Title:         "Build a Rate Limiter Service",
				Description:   "Design a standalone rate limiting service supporting fixed window and token bucket policies, then implement it with a Redis backend and benchmark the hot path.",
				Difficulty:    models.DifficultyMedium,
				Skills:        []string{"Redis", "concurrency", "API design", "benchmarking"},
				Steps: []string{
					"Compare fixed window, sliding window and token bucket",
					"Define the check-and-consume API",
					"Implement the fixed window policy on Redis",
					"Implement the token bucket policy on Redis",
					"Benchmark both under concurrent load",
					"Write up when you would pick each policy",
				},
				EstimatedTime: "8-12 hours",
				ProjectType:   "service",
				Language:      "any",
			},
			{
				Title:         "Design a Distributed Message Queue",
				Description:   "Design a partitioned, replicated message queue with at-least-once delivery, consumer groups and ordered partitions, then build a single-node prototype that demonstrates the commit log.",
				Difficulty:    models.DifficultyHard,
				Skills:        []string{"replication", "partitioning", "commit logs", "consensus basics"},
				Steps: []string{
					"Specify delivery semantics and ordering guarantees",
					"Design partition assignment for consumer groups",
					"Design the replication and leader failover story",
					"Prototype an append-only commit log with offsets",
					"Implement consumer offset tracking and replay",
					"Document how the design degrades under broker loss",
				},
				EstimatedTime: "16-20 hours",
				ProjectType:   "design + prototype",
				Language:      "any",
			},
		},
	}
}

// builtinIdeas returns the per-track project idea pools sampled into
// generation prompts
func builtinIdeas() map[Track][]string {
	return map[Track][]string{
		TrackJavaScript: {
			"a markdown note-taking app with live preview",
			"a pomodoro timer with session statistics",
			"a GitHub profile explorer using the public API",
			"a budget calculator with charts",
			"a quiz game with a countdown timer",
			"a movie watchlist backed by a public film API",
			"a typing speed trainer with accuracy tracking",
			"a kanban board with drag and drop",
		},
		TrackFlutter: {
			"a water intake reminder with daily goals",
			"a flashcard study app with spaced repetition",
			"a local events finder with map view",
			"a workout logger with rest timers",
			"a plant care tracker with photo journal",
			"a podcast player with playback speed control",
			"a travel packing checklist with templates",
		},
		TrackSystems: {
			"a news feed fan-out service",
			"a distributed cache with LRU eviction",
			"a job scheduler with retries and backoff",
			"a metrics aggregation pipeline",
			"a chat system with delivery receipts",
			"a file storage service with deduplication",
			"a leaderboard service for millions of players",
		},
	}
}

// builtinCourses returns the built-in course definitions
func builtinCourses() map[string]*models.Course {
	courses := []*models.Course{
		{
			ID:          "javascript-fundamentals",
			Title:       "JavaScript Fundamentals",
			Description: "From variables to async programming: the JavaScript you need before any framework.",
			Language:    "javascript",
			Lessons:     24,
		},
		{
			ID:          "flutter-mobile-dev",
			Title:       "Flutter Mobile Development",
			Description: "Build and ship cross-platform mobile apps with Flutter and Dart.",
			Language:    "dart",
			Lessons:     30,
		},
		{
			ID:          "systems-design-101",
			Title:       "Systems Design 101",
			Description: "Scalability, reliability and the building blocks of large distributed systems.",
			Language:    "any",
			Lessons:     18,
		},
	}

	out := make(map[string]*models.Course, len(courses))
	for _, c := range courses {
		out[c.ID] = c
	}
	return out
}

// builtinSamples returns the four sample feed challenges served in demo mode
func builtinSamples() []models.Challenge {
	return []models.Challenge{
		{
			ID:            "sample-js-todo",
			CourseID:      "javascript-fundamentals",
			Title:         "Build a Persistent To-Do List",
			Description:   "A classic first project: a to-do list that keeps your tasks across page reloads using localStorage.",
			Difficulty:    models.DifficultyEasy,
			Skills:        []string{"DOM", "events", "localStorage"},
			Steps:         []string{"Lay out the list and input", "Handle add and remove", "Persist on every change", "Restore on load"},
			EstimatedTime: "2-3 hours",
			ProjectType:   "web app",
			Language:      "javascript",
			IsPublic:      true,
			Source:        models.SourceSample,
			CreatedAt:     sampleTime(3),
		},
		{
			ID:            "sample-js-api",
			CourseID:      "javascript-fundamentals",
			Title:         "Consume a Public API with Fetch",
			Description:   "Fetch data from a public API, render it, then handle slow networks and failures without breaking the page.",
			Difficulty:    models.DifficultyMedium,
			Skills:        []string{"fetch", "promises", "error handling"},
			Steps:         []string{"Pick a public API", "Render the happy path", "Add loading and error states", "Cache the last response"},
			EstimatedTime: "4-5 hours",
			ProjectType:   "web app",
			Language:      "javascript",
			IsPublic:      true,
			Source:        models.SourceSample,
			CreatedAt:     sampleTime(5),
		},
		{
			ID:            "sample-flutter-counter",
			CourseID:      "flutter-mobile-dev",
			Title:         "Habit Counter with Local Storage",
			Description:   "Go beyond the starter counter: track multiple daily habits and persist them on the device.",
			Difficulty:    models.DifficultyEasy,
			Skills:        []string{"widgets", "state", "shared_preferences"},
			Steps:         []string{"Build the habit list UI", "Add check-in buttons", "Persist with shared_preferences", "Show streaks"},
			EstimatedTime: "3-4 hours",
			ProjectType:   "mobile app",
			Language:      "dart",
			IsPublic:      true,
			Source:        models.SourceSample,
			CreatedAt:     sampleTime(8),
		},
		{
			ID:            "sample-systems-shortener",
			CourseID:      "systems-design-101",
			Title:         "Sketch a URL Shortener at Scale",
			Description:   "Design the API, data model and capacity plan for a URL shortener serving one hundred million links.",
			Difficulty:    models.DifficultyMedium,
			Skills:        []string{"estimation", "API design", "data modeling"},
			Steps:         []string{"Write the API contract", "Pick a code generation scheme", "Estimate storage and QPS", "Document trade-offs"},
			EstimatedTime: "3-4 hours",
			ProjectType:   "design exercise",
			Language:      "any",
			IsPublic:      true,
			Source:        models.SourceSample,
			CreatedAt:     sampleTime(11),
		},
	}
}
