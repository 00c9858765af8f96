// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package law maps question text to related Korean statute and precedent
// links for the side rail.
//
// The lookup is a deliberately shallow keyword-membership scan: the rail
// is a navigation aid, not legal analysis. Groups keep declaration order
// and a fixed general-law fallback is returned when nothing matches.
package law

import (
	"net/url"
	"strings"
)

// Link is a single statute or precedent search link.
type Link struct {
	Text string
	URL  string
}

// Group is a set of links shown together, triggered by any of its keywords.
type Group struct {
	Keys  []string
	Links []Link
}

// searchURL builds a precedent search URL on the national law portal.
func searchURL(keyword string) string {
	return "https://www.law.go.kr/LSW/precSc.do?query=" + url.QueryEscape(keyword)
}

// db is the keyword database, in fixed display order.
var db = []Group{
	{Keys: []string{"무죄추정", "무죄 추정", "유죄"}, Links: []Link{
		{Text: "무죄추정의 원칙 (헌법 제27조)", URL: searchURL("무죄추정 헌법 27조")},
		{Text: "무죄추정 관련 판례", URL: searchURL("무죄추정 판례")},
	}},
	{Keys: []string{"자백배제", "자백 배제", "자백"}, Links: []Link{
		{Text: "자백배제법칙 개요", URL: searchURL("자백배제법칙")},
		{Text: "자백의 보강법칙(형사소송법)", URL: searchURL("자백 보강법칙 형사소송법")},
	}},
	{Keys: []string{"친고죄", "고소", "고소장"}, Links: []Link{
		{Text: "친고죄의 의의와 요건", URL: searchURL("친고죄 요건")},
		{Text: "친고죄 관련 판례", URL: searchURL("친고죄 판례")},
	}},
	{Keys: []string{"살인"}, Links: []Link{
		{Text: "살인죄: 형법 제250조", URL: searchURL("형법 250조 살인")},
		{Text: "살인죄 판례", URL: searchURL("살인죄 판례")},
	}},
	{Keys: []string{"절도"}, Links: []Link{
		{Text: "절도죄: 형법 제329조", URL: searchURL("형법 329조 절도")},
		{Text: "절도죄 판례", URL: searchURL("절도죄 판례")},
	}},
	{Keys: []string{"사기"}, Links: []Link{
		{Text: "사기죄: 형법 제347조", URL: searchURL("형법 347조 사기")},
		{Text: "사기죄 판례", URL: searchURL("사기죄 판례")},
	}},
	{Keys: []string{"형사소송법", "수사", "기소", "재판", "집행", "변호인", "증거", "적법절차"}, Links: []Link{
		{Text: "형사소송법 총론", URL: searchURL("형사소송법")},
		{Text: "증거능력/증거조사", URL: searchURL("형사소송법 증거능력")},
	}},
	{Keys: []string{"형법", "범죄", "책임", "양형"}, Links: []Link{
		{Text: "형법 총론", URL: searchURL("형법 총론")},
		{Text: "양형 기준(대법원 양형위원회)", URL: searchURL("양형 기준")},
	}},
}

// defaultGroups is returned when no keyword matches.
var defaultGroups = []Group{
	{Links: []Link{
		{Text: "형법 총론", URL: searchURL("형법 총론")},
		{Text: "형사소송법 총론", URL: searchURL("형사소송법 총론")},
	}},
}

// FindRelated returns the link groups whose keywords appear in text, in
// database order. When nothing matches (including empty text) the fixed
// general-law fallback is returned.
func FindRelated(text string) []Group {
	t := strings.ToLower(text)
	var found []Group
	for _, g := range db {
		for _, k := range g.Keys {
			if strings.Contains(t, strings.ToLower(k)) {
				found = append(found, g)
				break
			}
		}
	}
	if len(found) == 0 {
		return defaultGroups
	}
	return found
}
