// Package processor turns a fetched page into an in-memory artifact ready
// for the disk writer: converted content with local asset links plus the
// asset bytes themselves. All API calls happen here; writing is left to the
// writer so the two phases stay independently testable.
package processor

import (
	"context"
	"fmt"
	"path"

	"github.com/sirupsen/logrus"

	"github.com/okibox/confluence-export/internal/confluence"
	"github.com/okibox/confluence-export/internal/converter"
)

// DefaultImagesSubdir is where downloaded images land relative to the page.
const DefaultImagesSubdir = "images"

// AttachmentsSubdir is where downloaded attachments land relative to the page.
const AttachmentsSubdir = "attachments"

// AssetData is one file to be written alongside the page content.
type AssetData struct {
	// RelativePath is where the asset belongs relative to the page's
	// output directory, e.g. "images/photo.png".
	RelativePath string
	Bytes        []byte
}

// DownloadedAttachment maps an attachment's original title to the local
// path its bytes were stored under.
type DownloadedAttachment struct {
	OriginalName string
	RelativePath string
}

// ProcessedPage is a fully processed page: no further API calls or
// transformations are needed to persist it.
type ProcessedPage struct {
	// Filename is the sanitized page title without extension.
	Filename string
	// Content is the converted body with asset links rewritten to local
	// relative paths.
	Content string
	// RawStorage holds the original storage body when requested.
	RawStorage string
	// Images and Attachments carry the asset bytes keyed by disjoint
	// relative path prefixes.
	Images      []AssetData
	Attachments []AssetData
}

// ProcessOptions control conversion and asset handling.
type ProcessOptions struct {
	Format              converter.Format
	SaveRaw             bool
	DownloadImages      bool
	ImagesSubdir        string
	DownloadAttachments bool
	ConversionOptions   converter.Options
}

// Process converts a page and resolves its assets.
//
// Order matters: conversion first, then images, then the remaining
// attachments, so the attachment pass can skip files already materialized
// as images and the link rewriter sees stable content.
func Process(ctx context.Context, api confluence.API, page *confluence.Page, opts ProcessOptions) (*ProcessedPage, error) {
	if page.Body == nil || page.Body.Value == "" {
		return nil, fmt.Errorf("page %q has no storage content", page.Title)
	}
	storageContent := page.Body.Value

	if opts.ImagesSubdir == "" {
		opts.ImagesSubdir = DefaultImagesSubdir
	}

	content, err := converter.Convert(storageContent, opts.Format, opts.ConversionOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to convert page %q: %w", page.Title, err)
	}

	processed := &ProcessedPage{
		Filename: SanitizeFilename(page.Title),
		Content:  content,
	}

	var attachmentIndex []confluence.Attachment
	imageTitles := map[string]struct{}{}

	if opts.DownloadImages {
		refs, err := ExtractImageReferences(storageContent)
		if err != nil {
			return nil, err
		}
		if len(refs) > 0 {
			attachmentIndex, err = api.GetAttachments(ctx, page.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch attachments for page %q: %w", page.Title, err)
			}

			images, filenameMap, err := fetchImages(ctx, api, refs, attachmentIndex, opts.ImagesSubdir)
			if err != nil {
				return nil, err
			}
			processed.Images = images
			for original := range filenameMap {
				imageTitles[original] = struct{}{}
			}
			processed.Content = rewriteLocalLinks(processed.Content, opts.Format, filenameMap)
		}
	}

	if opts.DownloadAttachments {
		if attachmentIndex == nil {
			attachmentIndex, err = api.GetAttachments(ctx, page.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch attachments for page %q: %w", page.Title, err)
			}
		}

		assets, downloaded, err := fetchAttachments(ctx, api, attachmentIndex, imageTitles)
		if err != nil {
			return nil, err
		}
		processed.Attachments = assets
		if len(downloaded) > 0 {
			filenameMap := make(map[string]string, len(downloaded))
			for _, d := range downloaded {
				filenameMap[d.OriginalName] = d.RelativePath
			}
			processed.Content = rewriteLocalLinks(processed.Content, opts.Format, filenameMap)
		}
	}

	if opts.SaveRaw {
		processed.RawStorage = storageContent
	}

	return processed, nil
}

// fetchImages downloads every referenced image and returns the assets plus
// an original-name to local-path map for link rewriting. A reference whose
// attachment is missing from the index fails the page.
func fetchImages(ctx context.Context, api confluence.API, refs []ImageReference, index []confluence.Attachment, subdir string) ([]AssetData, map[string]string, error) {
	var assets []AssetData
	filenameMap := map[string]string{}
	used := map[string]struct{}{}

	for _, ref := range refs {
		if _, done := filenameMap[ref.Filename]; done {
			continue
		}

		attachment := findAttachment(index, ref.Filename)
		if attachment == nil {
			return nil, nil, fmt.Errorf("attachment not found: %s", ref.Filename)
		}
		if attachment.DownloadLink == "" {
			return nil, nil, fmt.Errorf("no download link for attachment: %s", ref.Filename)
		}

		bytes, err := api.FetchAttachment(ctx, attachment.DownloadLink)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch image %s: %w", ref.Filename, err)
		}

		safe := uniqueName(sanitizeAssetFilename(ref.Filename), used)
		relative := path.Join(subdir, safe)
		filenameMap[ref.Filename] = relative
		assets = append(assets, AssetData{RelativePath: relative, Bytes: bytes})
	}

	return assets, filenameMap, nil
}

// fetchAttachments downloads every indexed attachment not already stored as
// an image. Attachments without a download link are skipped with a warning.
func fetchAttachments(ctx context.Context, api confluence.API, index []confluence.Attachment, skipTitles map[string]struct{}) ([]AssetData, []DownloadedAttachment, error) {
	var assets []AssetData
	var downloaded []DownloadedAttachment
	used := map[string]struct{}{}

	for _, attachment := range index {
		if _, skip := skipTitles[attachment.Title]; skip {
			continue
		}
		if attachment.DownloadLink == "" {
			logrus.WithField("attachment", attachment.Title).Warn("attachment has no download link, skipping")
			continue
		}

		bytes, err := api.FetchAttachment(ctx, attachment.DownloadLink)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch attachment %s: %w", attachment.Title, err)
		}

		safe := uniqueName(sanitizeAssetFilename(attachment.Title), used)
		relative := path.Join(AttachmentsSubdir, safe)
		downloaded = append(downloaded, DownloadedAttachment{OriginalName: attachment.Title, RelativePath: relative})
		assets = append(assets, AssetData{RelativePath: relative, Bytes: bytes})
	}

	return assets, downloaded, nil
}

func findAttachment(index []confluence.Attachment, title string) *confluence.Attachment {
	for i := range index {
		if index[i].Title == title {
			return &index[i]
		}
	}
	return nil
}
