// Package search answers free-text queries over the project store by
// embedding the query and ranking stored records by vector similarity.
package search
