// Package models defines domain entities for the bulletin newsletter service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): shapes exchanged with editor clients
//   - [NewsletterData] : One period's full content, grouped by category
//   - [Employee] : An employee mention (hire, promotion, birthday, ...)
//   - [Event] : A company event
//   - [Comment] : An internal annotation on an entry
//
// 2. Listing shapes used by the landing page and CLI:
//   - [PeriodSummary] : Month/year plus timestamps for the recent-periods list
//   - [FeedItem] : A single entry with its period attached, for the all-posts feed
//
// Category keys mirror the stored category column values (newHires,
// promotions, ...). Entries carry an entry_type of either employee or event;
// bestEmployee and bestPerformer are single-valued in the DTO.
package models
